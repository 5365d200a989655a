package ui

// Panel is a View that fills the content area under the tab bar.
type Panel interface {
	View
	// Heading is the panel's title line; it identifies the panel on screen.
	Heading() string
	// CapturesInput reports whether plain keys (digits, q, space) belong to
	// the panel, e.g. while a text field has focus.
	CapturesInput() bool
	// SetSize gives the panel its content area.
	SetSize(width, height int)
}

// Panel headings.
const (
	HeadingMint     = "Create your NFT"
	HeadingGallery  = "NFT gallery"
	HeadingActivity = "Minting activity"
	HeadingManage   = "Manage your NFTs"
	HeadingDebug    = "NFT debugger"
)

func renderHeading(s string) string {
	return Styles.Title.Render("◆ " + s)
}
