package ui

import (
	"fmt"

	"mintdeck/internal/ui/textutil"
	"mintdeck/internal/web3"
)

// Page copy.
const (
	AppName     = "Mintdeck"
	HeroTitle   = "Afrofuturistic Creator Economy"
	HeroTagline = "Mint unique NFTs, earn Creator Tokens, and build your digital art empire"
	FooterText  = "Built for the future of African digital art • Powered by Lisk Blockchain"
)

// renderHeader draws the app name, network and wallet state.
func renderHeader(w *web3.Context, width int) string {
	left := AppName
	right := "wallet: disconnected"
	if w != nil {
		n := w.Network()
		left = fmt.Sprintf("%s · %s (%d)", AppName, n.Name, n.ChainID)
		if acct, ok := w.Account(); ok {
			right = "wallet: " + web3.ShortAddress(acct)
		} else {
			right = "wallet: " + w.Status().String()
		}
	}
	line := textutil.Spread(left, Styles.Muted.Render(right), width-Styles.Header.GetHorizontalFrameSize(), 2)
	return Styles.Header.Render(line)
}

func renderHero() string {
	return Styles.HeroTitle.Render(HeroTitle) + "\n" + Styles.HeroTagline.Render(HeroTagline)
}

func renderFooter() string {
	return Styles.Footer.Render(FooterText)
}
