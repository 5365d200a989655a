package ui

// TabNavigator tracks the active tab and rotates through an ordered set.
type TabNavigator struct {
	Current  Tab
	Order    []Tab // Tab-bar order
	OnChange func(from, to Tab)
}

// Next advances to the next tab in order and returns it.
func (n *TabNavigator) Next() Tab {
	return n.step(1)
}

// Prev moves to the previous tab in order and returns it.
func (n *TabNavigator) Prev() Tab {
	return n.step(-1)
}

func (n *TabNavigator) step(delta int) Tab {
	if len(n.Order) == 0 {
		return n.Current
	}
	idx := n.indexOf(n.Current)
	if idx < 0 {
		idx = 0
		delta = 0
	}
	next := (idx + delta + len(n.Order)) % len(n.Order)
	n.set(n.Order[next])
	return n.Current
}

// Set selects t. Returns false (and leaves Current alone) if t is not in Order.
func (n *TabNavigator) Set(t Tab) bool {
	if n.indexOf(t) < 0 {
		return false
	}
	n.set(t)
	return true
}

func (n *TabNavigator) set(t Tab) {
	from := n.Current
	n.Current = t
	if n.OnChange != nil && from != t {
		n.OnChange(from, t)
	}
}

func (n *TabNavigator) indexOf(t Tab) int {
	for i, o := range n.Order {
		if o == t {
			return i
		}
	}
	return -1
}
