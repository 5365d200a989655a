// Package ui is the Bubble Tea page shell of mintdeck.
//
// The page is fixed: header, hero, stats overview, a tab bar with exactly
// one content panel, and a footer. Tabs form a closed set (Tab); the debug
// tab and its diagnostic loads exist only in development builds.
//
// Building blocks:
//   - View: Elm-style Init/Update/View unit
//   - Panel: a View that fills the content box under the tab bar
//   - TabNavigator / AppLayout: active tab, tab bar, tab keys
//   - KeybindRegistry / KeyHandler: SPC leader bindings, filtered by tab
//   - OverlayStack: modals (transfer, burn confirmation)
package ui
