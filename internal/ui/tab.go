package ui

import "mintdeck/internal/config"

// Tab identifies the content panel shown under the tab bar.
// The set is closed: every switch over Tab must handle all of these.
type Tab int

const (
	TabMint Tab = iota
	TabGallery
	TabActivity
	TabManage
	TabDebug
)

// DefaultTab is the tab shown on launch: existing work before the mint form.
const DefaultTab = TabGallery

// AllTabs lists every tab in tab-bar order.
var AllTabs = []Tab{TabMint, TabGallery, TabActivity, TabManage, TabDebug}

func (t Tab) String() string {
	switch t {
	case TabMint:
		return "mint"
	case TabGallery:
		return "gallery"
	case TabActivity:
		return "activity"
	case TabManage:
		return "manage"
	case TabDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Label is the tab-bar caption.
func (t Tab) Label() string {
	switch t {
	case TabMint:
		return "Mint"
	case TabGallery:
		return "Gallery"
	case TabActivity:
		return "Activity"
	case TabManage:
		return "Manage"
	case TabDebug:
		return "Debug"
	default:
		return ""
	}
}

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	return t >= TabMint && t <= TabDebug
}

// AvailableIn reports whether t can be selected in the given build mode.
// The debug tab exists only in development builds.
func (t Tab) AvailableIn(mode config.Mode) bool {
	switch t {
	case TabMint, TabGallery, TabActivity, TabManage:
		return true
	case TabDebug:
		return mode.IsDevelopment()
	default:
		return false
	}
}

// VisibleTabs returns the tabs shown in the tab bar for mode.
func VisibleTabs(mode config.Mode) []Tab {
	out := make([]Tab, 0, len(AllTabs))
	for _, t := range AllTabs {
		if t.AvailableIn(mode) {
			out = append(out, t)
		}
	}
	return out
}
