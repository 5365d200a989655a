// Package ipfs normalizes and previews IPFS content URIs used as NFT images.
// It does not fetch or pin content.
package ipfs

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the canonical URI scheme for IPFS content.
const Scheme = "ipfs://"

// ErrEmptyRef is returned when a content reference is blank.
var ErrEmptyRef = errors.New("empty content reference")

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
const base32Alphabet = "abcdefghijklmnopqrstuvwxyz234567"

// IsCID reports whether s looks like a CIDv0 (Qm…, 46 base58 chars) or a
// base32 CIDv1 (b…, lowercase).
func IsCID(s string) bool {
	switch {
	case len(s) == 46 && strings.HasPrefix(s, "Qm"):
		return allIn(s, base58Alphabet)
	case len(s) >= 50 && strings.HasPrefix(s, "b"):
		return allIn(s[1:], base32Alphabet)
	}
	return false
}

func allIn(s, alphabet string) bool {
	for _, r := range s {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

// Normalize turns a user-supplied content reference into a canonical URI.
// ipfs:// URIs, gateway URLs (…/ipfs/<cid>/…) and bare CIDs become
// ipfs://<cid>[/path]; other http(s) URLs are returned unchanged.
func Normalize(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyRef
	}
	if strings.HasPrefix(ref, Scheme) {
		cid, _ := split(strings.TrimPrefix(ref, Scheme))
		if !IsCID(cid) {
			return "", fmt.Errorf("invalid CID %q", cid)
		}
		return ref, nil
	}
	if IsCID(ref) {
		return Scheme + ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse content reference: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if p, ok := gatewayPath(u); ok {
		return Scheme + p, nil
	}
	return ref, nil
}

// IsGatewayURL reports whether uri is an http(s) URL of the form …/ipfs/<cid>.
func IsGatewayURL(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	_, ok := gatewayPath(u)
	return ok
}

// CID extracts the CID from an ipfs:// URI or gateway URL.
func CID(uri string) (string, bool) {
	if strings.HasPrefix(uri, Scheme) {
		cid, _ := split(strings.TrimPrefix(uri, Scheme))
		return cid, IsCID(cid)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", false
	}
	p, ok := gatewayPath(u)
	if !ok {
		return "", false
	}
	cid, _ := split(p)
	return cid, true
}

// GatewayURL returns an http(s) URL for previewing uri through gateway.
// Non-IPFS URIs are returned unchanged.
func GatewayURL(uri, gateway string) string {
	if !strings.HasPrefix(uri, Scheme) {
		return uri
	}
	return strings.TrimRight(gateway, "/") + "/ipfs/" + strings.TrimPrefix(uri, Scheme)
}

func gatewayPath(u *url.URL) (string, bool) {
	idx := strings.Index(u.Path, "/ipfs/")
	if idx < 0 {
		return "", false
	}
	p := strings.TrimPrefix(u.Path[idx:], "/ipfs/")
	cid, _ := split(p)
	if !IsCID(cid) {
		return "", false
	}
	return strings.TrimRight(p, "/"), true
}

func split(p string) (cid, rest string) {
	cid, rest, _ = strings.Cut(p, "/")
	return cid, rest
}
