package diagnostics

import (
	"context"
	"fmt"
	"strings"

	"mintdeck/internal/ipfs"
)

// Names of the built-in modules, in load order.
const (
	ModuleDebugNFTs = "debug-nfts"
	ModuleIPFSDebug = "ipfs-debug"
	ModuleIPFSFix   = "ipfs-fix"
	ModuleCheckNFT  = "check-nft"
)

// Defaults returns a registry with the four built-in modules.
func Defaults() *Registry {
	r := NewRegistry()
	for _, m := range []Module{
		{Name: ModuleDebugNFTs, Description: "List the connected account's NFTs", Run: debugNFTs},
		{Name: ModuleIPFSDebug, Description: "Flag non-canonical or invalid content URIs", Run: ipfsDebug},
		{Name: ModuleIPFSFix, Description: "Rewrite gateway URLs to ipfs:// URIs", Run: ipfsFix},
		{Name: ModuleCheckNFT, Description: "Check ledger consistency", Run: checkNFT},
	} {
		// Built-in names are unique.
		_ = r.Register(m)
	}
	return r
}

func debugNFTs(ctx context.Context, env Env) (Report, error) {
	account, ok := env.Chain.Account()
	if !ok {
		return Report{Summary: "wallet not connected; nothing to list"}, nil
	}
	toks, err := env.Chain.MyTokens(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list tokens: %w", err)
	}
	rep := Report{Summary: fmt.Sprintf("%d NFT(s) owned by %s", len(toks), account)}
	for _, t := range toks {
		rep.Findings = append(rep.Findings, fmt.Sprintf("#%d %s %s", t.ID, t.Name, ipfs.GatewayURL(t.URI, env.Gateway)))
	}
	return rep, nil
}

func ipfsDebug(ctx context.Context, env Env) (Report, error) {
	toks, err := env.Chain.Gallery(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list tokens: %w", err)
	}
	var rep Report
	for _, t := range toks {
		switch {
		case ipfs.IsGatewayURL(t.URI):
			rep.Findings = append(rep.Findings, fmt.Sprintf("#%d uses a gateway URL: %s", t.ID, t.URI))
		case strings.HasPrefix(t.URI, ipfs.Scheme):
			if _, ok := ipfs.CID(t.URI); !ok {
				rep.Findings = append(rep.Findings, fmt.Sprintf("#%d has an invalid CID: %s", t.ID, t.URI))
			}
		default:
			rep.Findings = append(rep.Findings, fmt.Sprintf("#%d is not stored on IPFS: %s", t.ID, t.URI))
		}
	}
	rep.Summary = fmt.Sprintf("checked %d token URI(s), %d issue(s)", len(toks), len(rep.Findings))
	return rep, nil
}

func ipfsFix(ctx context.Context, env Env) (Report, error) {
	toks, err := env.Chain.Gallery(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list tokens: %w", err)
	}
	var rep Report
	fixed := 0
	for _, t := range toks {
		if !ipfs.IsGatewayURL(t.URI) {
			continue
		}
		uri, err := ipfs.Normalize(t.URI)
		if err != nil {
			rep.Findings = append(rep.Findings, fmt.Sprintf("#%d: %v", t.ID, err))
			continue
		}
		if _, err := env.Chain.SetTokenURI(ctx, t.ID, uri); err != nil {
			return rep, fmt.Errorf("rewrite token %d: %w", t.ID, err)
		}
		fixed++
		rep.Changed = true
		rep.Findings = append(rep.Findings, fmt.Sprintf("#%d -> %s", t.ID, uri))
	}
	rep.Summary = fmt.Sprintf("rewrote %d gateway URI(s)", fixed)
	return rep, nil
}

func checkNFT(ctx context.Context, env Env) (Report, error) {
	toks, err := env.Chain.Gallery(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list tokens: %w", err)
	}
	var rep Report
	for _, t := range toks {
		if t.Owner == "" {
			rep.Findings = append(rep.Findings, fmt.Sprintf("#%d has no owner", t.ID))
		}
		n, err := env.Chain.MintEvents(ctx, t.ID)
		if err != nil {
			return rep, fmt.Errorf("count mint events for %d: %w", t.ID, err)
		}
		if n != 1 {
			rep.Findings = append(rep.Findings, fmt.Sprintf("#%d has %d mint events", t.ID, n))
		}
	}
	if len(rep.Findings) == 0 {
		rep.Summary = fmt.Sprintf("%d live NFT(s) consistent", len(toks))
	} else {
		rep.Summary = fmt.Sprintf("%d inconsistency(ies) across %d NFT(s)", len(rep.Findings), len(toks))
	}
	return rep, nil
}
