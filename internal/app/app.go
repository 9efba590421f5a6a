// Package app wires the session, stores and catalog together and owns
// the screen-level flows: startup, login/logout user switching, the
// grid add-to-cart shortcut and the filtered product view.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkhmelev/storefront/internal/catalog"
	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
	"github.com/dkhmelev/storefront/internal/nav"
	"github.com/dkhmelev/storefront/internal/service"
)

// App is the session-switch collaborator: it rescopes and hydrates the
// stores when the active user changes and routes between screens.
type App struct {
	session  *service.Session
	cart     *service.Cart
	wishlist *service.Wishlist
	profile  *service.ProfileEditor
	catalog  *catalog.Catalog
	router   *nav.Router
	toaster  nav.Toaster
	logger   *logger.Logger

	view []model.Product
}

// New assembles the application. The router starts on Home; Start
// resolves the real initial screen from the persisted session.
func New(
	session *service.Session,
	cart *service.Cart,
	wishlist *service.Wishlist,
	profile *service.ProfileEditor,
	cat *catalog.Catalog,
	toaster nav.Toaster,
	l *logger.Logger,
) *App {
	return &App{
		session:  session,
		cart:     cart,
		wishlist: wishlist,
		profile:  profile,
		catalog:  cat,
		router:   nav.NewRouter(nav.ScreenHome),
		toaster:  toaster,
		logger:   l,
		view:     cat.List(),
	}
}

// Router exposes the navigation state.
func (a *App) Router() *nav.Router {
	return a.router
}

// Cart exposes the cart store for the cart screen.
func (a *App) Cart() *service.Cart {
	return a.cart
}

// Wishlist exposes the wishlist store for the wishlist screen.
func (a *App) Wishlist() *service.Wishlist {
	return a.wishlist
}

// Profile exposes the profile editor for the profile screen.
func (a *App) Profile() *service.ProfileEditor {
	return a.profile
}

// Start resolves the persisted session and positions the router on the
// initial screen. The caller blocks on this before showing anything.
// A logged-in session also restores the active profile and hydrates
// the per-user stores.
func (a *App) Start(ctx context.Context) {
	loggedIn := a.session.Check(ctx)
	if loggedIn {
		if p, ok := a.session.ActiveProfile(ctx); ok {
			a.profile.SetCurrent(p)
			if u, err := a.session.UserByEmail(ctx, p.Email); err == nil {
				a.switchUser(ctx, u.ID.String())
			} else {
				a.logger.Error("failed to resolve logged-in account", "email", p.Email, "error", err.Error())
			}
		}
	}

	a.router.Reset(nav.Initial(loggedIn))
}

// Login authenticates and, on success, rescopes and hydrates the cart
// and wishlist for the user before routing to the main tabs.
func (a *App) Login(ctx context.Context, email, password string) error {
	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.profile.SetCurrent(model.ProfileOf(user))
	a.switchUser(ctx, user.ID.String())
	a.router.Reset(nav.ScreenMainTabs)

	return nil
}

// Register creates the account and routes to the login screen; the
// user signs in explicitly afterwards.
func (a *App) Register(ctx context.Context, params service.RegisterParams) error {
	if _, err := a.session.Register(ctx, params); err != nil {
		return err
	}

	a.router.Replace(nav.ScreenLogin, nil)
	return nil
}

// Logout clears the session, resets the stores to anonymous and
// routes to the logged-out home screen. It never fails.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.profile.Clear()
	a.cart.SetUser("")
	a.wishlist.SetUser("")
	a.router.Reset(nav.ScreenHome)
}

// AddToCartFromGrid is the grid shortcut: products already in the cart
// stay there with an informational toast instead of being toggled off.
func (a *App) AddToCartFromGrid(p model.Product) {
	if a.cart.Contains(p.ID) {
		a.toaster.Show(nav.ToastInfo, "Already added")
		return
	}

	a.cart.Toggle(p)
	a.toaster.Show(nav.ToastSuccess, "Added to cart")
}

// ToggleWishlist flips wishlist membership with feedback.
func (a *App) ToggleWishlist(p model.Product) {
	if a.wishlist.Toggle(p) {
		a.toaster.Show(nav.ToastSuccess, "Added to wishlist")
		return
	}
	a.toaster.Show(nav.ToastInfo, "Removed from wishlist")
}

// OpenProduct navigates to the details screen for the given id.
func (a *App) OpenProduct(id string) error {
	p, err := a.catalog.GetByID(id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("unknown product %q", id)
		}
		return err
	}

	a.router.Navigate(nav.ScreenProductDetails, p)
	return nil
}

// ApplyFilters derives a new product view. A rejected filter (inverted
// price range) leaves the previously displayed view unchanged and the
// error is surfaced inline by the caller.
func (a *App) ApplyFilters(f catalog.Filter) ([]model.Product, error) {
	filtered, err := catalog.Apply(a.catalog.List(), f)
	if err != nil {
		return nil, err
	}

	a.view = filtered
	return a.View(), nil
}

// View returns the currently displayed product set.
func (a *App) View() []model.Product {
	out := make([]model.Product, len(a.view))
	copy(out, a.view)
	return out
}

// switchUser rescopes both stores and performs the explicit hydration
// step. Hydration failure degrades to an empty store; the session
// itself stays valid.
func (a *App) switchUser(ctx context.Context, userID string) {
	a.cart.SetUser(userID)
	if err := a.cart.Load(ctx, userID); err != nil {
		a.logger.Error("failed to hydrate cart", "user_id", userID, "error", err.Error())
	}

	a.wishlist.SetUser(userID)
	if err := a.wishlist.Load(ctx, userID); err != nil {
		a.logger.Error("failed to hydrate wishlist", "user_id", userID, "error", err.Error())
	}
}
