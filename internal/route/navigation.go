package route

import "github.com/fjod/go_cart/storefront/internal/domain"

// State travels with a navigation, like history state in a browser.
type State struct {
	CartItemIDs []domain.ID
}

// Navigation is a request to move to another view. Replace means the
// current view is not kept in history.
type Navigation struct {
	Path    string
	Replace bool
	State   *State
}

func To(path string) *Navigation {
	return &Navigation{Path: path}
}

func ReplaceWith(path string) *Navigation {
	return &Navigation{Path: path, Replace: true}
}

// Guard applies session rules: protected views bounce to login when logged
// out, and the login view bounces home when already logged in.
func Guard(loggedIn bool, nav Navigation) Navigation {
	m, err := Resolve(nav.Path)
	if err != nil {
		return nav
	}
	if m.View.Protected() && !loggedIn {
		return Navigation{Path: PathLogin, Replace: true}
	}
	if m.View == ViewLogin && loggedIn {
		return Navigation{Path: PathHome, Replace: true}
	}
	return nav
}

// History is a minimal back stack honoring Replace.
type History struct {
	entries []Navigation
}

func NewHistory(start string) *History {
	return &History{entries: []Navigation{{Path: start}}}
}

func (h *History) Navigate(nav Navigation) {
	if nav.Replace && len(h.entries) > 0 {
		h.entries[len(h.entries)-1] = nav
		return
	}
	h.entries = append(h.entries, nav)
}

func (h *History) Current() Navigation {
	return h.entries[len(h.entries)-1]
}

// Back pops the current entry; it is a no-op on the first entry.
func (h *History) Back() Navigation {
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.Current()
}

func (h *History) Len() int {
	return len(h.entries)
}
