// Package nav models the logical screen-navigation surface: named
// destinations, a router holding the active route, and a one-shot
// toast surface. It carries no rendering concerns.
package nav

import "sync"

// Screen names a navigable destination.
type Screen string

const (
	ScreenHome     Screen = "Home"
	ScreenLogin    Screen = "Login"
	ScreenRegister Screen = "Register"
	// ScreenMainTabs is the logged-in container for the three tabs.
	ScreenMainTabs       Screen = "MainTabs"
	ScreenProducts       Screen = "Products"
	ScreenWishlist       Screen = "Wishlist"
	ScreenCart           Screen = "Cart"
	ScreenProductDetails Screen = "ProductDetails"
)

// Initial returns the startup destination. Callers must resolve the
// session check first; showing a screen before it resolves would flash
// the wrong one.
func Initial(loggedIn bool) Screen {
	if loggedIn {
		return ScreenMainTabs
	}
	return ScreenHome
}

// Route is a destination plus its parameters (e.g. the product shown
// by ProductDetails).
type Route struct {
	Screen Screen
	Params any
}

// Router tracks the navigation stack.
type Router struct {
	mu    sync.Mutex
	stack []Route
}

// NewRouter creates a router positioned at the given screen.
func NewRouter(initial Screen) *Router {
	return &Router{stack: []Route{{Screen: initial}}}
}

// Navigate pushes a destination onto the stack.
func (r *Router) Navigate(screen Screen, params any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack = append(r.stack, Route{Screen: screen, Params: params})
}

// Replace swaps the current destination without growing the stack,
// so Back skips the replaced screen (register -> login).
func (r *Router) Replace(screen Screen, params any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack[len(r.stack)-1] = Route{Screen: screen, Params: params}
}

// Reset drops the whole stack and starts over at screen. Used on
// login, logout and the startup decision.
func (r *Router) Reset(screen Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stack = []Route{{Screen: screen}}
}

// Back pops the current destination. It refuses to pop the last
// remaining route and reports whether it moved.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Current returns the active route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stack[len(r.stack)-1]
}

// Depth returns the stack size.
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.stack)
}
