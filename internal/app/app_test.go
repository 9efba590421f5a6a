package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkhmelev/storefront/internal/catalog"
	"github.com/dkhmelev/storefront/internal/logger"
	"github.com/dkhmelev/storefront/internal/model"
	"github.com/dkhmelev/storefront/internal/nav"
	"github.com/dkhmelev/storefront/internal/service"
	"github.com/dkhmelev/storefront/internal/storage/memory"
)

type recordingToaster struct {
	toasts []string
}

func (r *recordingToaster) Show(kind nav.ToastKind, message string) {
	r.toasts = append(r.toasts, string(kind)+": "+message)
}

type fixture struct {
	app       *App
	kv        *memory.Store
	persister *service.Persister
	toaster   *recordingToaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := memory.New()
	log := logger.New("error")
	persister := service.NewPersister(kv, log)
	t.Cleanup(func() { persister.Close() })

	cat, err := catalog.Load("")
	require.NoError(t, err)

	toaster := &recordingToaster{}
	a := New(
		service.NewSession(kv, log, bcrypt.MinCost),
		service.NewCart(kv, persister, log),
		service.NewWishlist(kv, persister, log),
		service.NewProfileEditor(kv, persister, log),
		cat,
		toaster,
		log,
	)

	return &fixture{app: a, kv: kv, persister: persister, toaster: toaster}
}

func (f *fixture) register(t *testing.T, email, password string) {
	t.Helper()

	require.NoError(t, f.app.Register(context.Background(), service.RegisterParams{
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	}))
}

func TestApp_StartLoggedOut(t *testing.T) {
	f := newFixture(t)

	f.app.Start(context.Background())

	assert.Equal(t, nav.ScreenHome, f.app.Router().Current().Screen)
}

func TestApp_RegisterRoutesToLogin(t *testing.T) {
	f := newFixture(t)
	f.app.Start(context.Background())

	f.register(t, "a@b.co", "secret1")

	assert.Equal(t, nav.ScreenLogin, f.app.Router().Current().Screen)
}

func TestApp_LoginRoutesToMainTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "a@b.co", "secret1")

	require.NoError(t, f.app.Login(ctx, "a@b.co", "secret1"))

	assert.Equal(t, nav.ScreenMainTabs, f.app.Router().Current().Screen)
}

func TestApp_LoginFailureKeepsScreen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.app.Start(ctx)
	f.register(t, "a@b.co", "secret1")

	err := f.app.Login(ctx, "a@b.co", "wrongpass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Equal(t, nav.ScreenLogin, f.app.Router().Current().Screen)
}

func TestApp_StartRestoresHydratedSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "a@b.co", "secret1")
	require.NoError(t, f.app.Login(ctx, "a@b.co", "secret1"))

	product, err := catalog.Load("")
	require.NoError(t, err)
	p, err := product.GetByID("1")
	require.NoError(t, err)
	f.app.AddToCartFromGrid(p)
	require.NoError(t, f.persister.Close())

	// a fresh process over the same store
	log := logger.New("error")
	persister := service.NewPersister(f.kv, log)
	t.Cleanup(func() { persister.Close() })
	cat, err := catalog.Load("")
	require.NoError(t, err)
	cart := service.NewCart(f.kv, persister, log)
	restarted := New(
		service.NewSession(f.kv, log, bcrypt.MinCost),
		cart,
		service.NewWishlist(f.kv, persister, log),
		service.NewProfileEditor(f.kv, persister, log),
		cat,
		&recordingToaster{},
		log,
	)

	restarted.Start(ctx)

	assert.Equal(t, nav.ScreenMainTabs, restarted.Router().Current().Screen)
	assert.True(t, cart.Contains("1"), "persisted cart must hydrate on startup")
}

func TestApp_LogoutClearsStoresButNotSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "a@b.co", "secret1")
	require.NoError(t, f.app.Login(ctx, "a@b.co", "secret1"))

	cat, err := catalog.Load("")
	require.NoError(t, err)
	p, err := cat.GetByID("1")
	require.NoError(t, err)
	f.app.AddToCartFromGrid(p)
	require.NoError(t, f.persister.Close())

	f.app.Logout(ctx)

	assert.Equal(t, nav.ScreenHome, f.app.Router().Current().Screen)

	// persisted per-user snapshot survives logout
	users := loadUsers(t, f.kv)
	require.Len(t, users, 1)
	value, ok, err := f.kv.Get(ctx, model.CartKey(users[0].ID.String()))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, value, `"id":"1"`)
}

func TestApp_UserSwitchIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "a@b.co", "secret1")
	f.register(t, "b@b.co", "secret2")

	cat, err := catalog.Load("")
	require.NoError(t, err)
	p, err := cat.GetByID("1")
	require.NoError(t, err)

	require.NoError(t, f.app.Login(ctx, "a@b.co", "secret1"))
	f.app.AddToCartFromGrid(p)

	f.app.Logout(ctx)
	require.NoError(t, f.app.Login(ctx, "b@b.co", "secret2"))

	items := f.app.cart.Items()
	assert.Empty(t, items, "second user must not see first user's cart")
}

func TestApp_AddToCartFromGridDoesNotToggleOff(t *testing.T) {
	f := newFixture(t)

	cat, err := catalog.Load("")
	require.NoError(t, err)
	p, err := cat.GetByID("1")
	require.NoError(t, err)

	f.app.AddToCartFromGrid(p)
	f.app.AddToCartFromGrid(p)

	assert.True(t, f.app.cart.Contains("1"))
	require.Len(t, f.toaster.toasts, 2)
	assert.Equal(t, "success: Added to cart", f.toaster.toasts[0])
	assert.Equal(t, "info: Already added", f.toaster.toasts[1])
}

func TestApp_ToggleWishlistFeedback(t *testing.T) {
	f := newFixture(t)

	cat, err := catalog.Load("")
	require.NoError(t, err)
	p, err := cat.GetByID("3")
	require.NoError(t, err)

	f.app.ToggleWishlist(p)
	f.app.ToggleWishlist(p)

	require.Len(t, f.toaster.toasts, 2)
	assert.Equal(t, "success: Added to wishlist", f.toaster.toasts[0])
	assert.Equal(t, "info: Removed from wishlist", f.toaster.toasts[1])
}

func TestApp_RejectedFilterKeepsView(t *testing.T) {
	f := newFixture(t)

	view, err := f.app.ApplyFilters(catalog.Filter{Query: "phone"})
	require.NoError(t, err)
	require.NotEmpty(t, view)

	_, err = f.app.ApplyFilters(catalog.Filter{PriceEnabled: true, MinPrice: 100, MaxPrice: 50})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))

	assert.Equal(t, view, f.app.View(), "rejected filter must leave the displayed set unchanged")
}

func TestApp_OpenProduct(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.app.OpenProduct("1"))

	route := f.app.Router().Current()
	assert.Equal(t, nav.ScreenProductDetails, route.Screen)
	product, ok := route.Params.(model.Product)
	require.True(t, ok)
	assert.Equal(t, "1", product.ID)

	assert.Error(t, f.app.OpenProduct("no-such-id"))
}

func loadUsers(t *testing.T, kv *memory.Store) []model.User {
	t.Helper()

	value, ok, err := kv.Get(context.Background(), model.KeyUsers)
	require.NoError(t, err)
	require.True(t, ok)

	var users []model.User
	require.NoError(t, json.Unmarshal([]byte(value), &users))
	return users
}
