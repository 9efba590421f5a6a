package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitial(t *testing.T) {
	assert.Equal(t, ScreenMainTabs, Initial(true))
	assert.Equal(t, ScreenHome, Initial(false))
}

func TestRouter_NavigateAndBack(t *testing.T) {
	r := NewRouter(ScreenHome)

	r.Navigate(ScreenLogin, nil)
	r.Navigate(ScreenRegister, nil)
	assert.Equal(t, ScreenRegister, r.Current().Screen)
	assert.Equal(t, 3, r.Depth())

	assert.True(t, r.Back())
	assert.Equal(t, ScreenLogin, r.Current().Screen)
}

func TestRouter_BackRefusesLastRoute(t *testing.T) {
	r := NewRouter(ScreenHome)

	assert.False(t, r.Back())
	assert.Equal(t, ScreenHome, r.Current().Screen)
}

func TestRouter_ReplaceDoesNotGrowStack(t *testing.T) {
	r := NewRouter(ScreenHome)
	r.Navigate(ScreenRegister, nil)

	r.Replace(ScreenLogin, nil)

	assert.Equal(t, ScreenLogin, r.Current().Screen)
	assert.Equal(t, 2, r.Depth())

	// back skips the replaced register screen
	assert.True(t, r.Back())
	assert.Equal(t, ScreenHome, r.Current().Screen)
}

func TestRouter_ResetDropsStack(t *testing.T) {
	r := NewRouter(ScreenHome)
	r.Navigate(ScreenLogin, nil)
	r.Navigate(ScreenRegister, nil)

	r.Reset(ScreenMainTabs)

	assert.Equal(t, ScreenMainTabs, r.Current().Screen)
	assert.Equal(t, 1, r.Depth())
	assert.False(t, r.Back())
}

func TestRouter_ParamsTravelWithRoute(t *testing.T) {
	r := NewRouter(ScreenMainTabs)

	r.Navigate(ScreenProductDetails, "product-1")

	route := r.Current()
	assert.Equal(t, ScreenProductDetails, route.Screen)
	assert.Equal(t, "product-1", route.Params)
}
