package mapper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.scnd.dev/open/upgrader/package/erroring"
)

func TestMapIdentityForSnakeCase(t *testing.T) {
	m := New()
	require.Equal(t, "test", m.Map("test"))
	require.Equal(t, "page_intro", m.Map("page_intro"))
	require.Equal(t, "header__top", m.Map("header__top"))
}

func TestMapNormalizes(t *testing.T) {
	m := New()
	require.Equal(t, "page_intro", m.Map("PageIntro"))
	require.Equal(t, "page_intro", m.Map(" page-intro "))
	require.Equal(t, "header_top", m.Map("Header__Top"))
}

func TestMapDeterministic(t *testing.T) {
	m := New()
	for _, name := range []string{"test", "PageIntro", "side bar"} {
		require.Equal(t, m.Map(name), m.Map(name))
	}
}

func TestRegisterCollision(t *testing.T) {
	m := New()

	mapped, err := m.Register("page_intro")
	require.NoError(t, err)
	require.Equal(t, "page_intro", mapped)

	// * same source twice is not a collision
	_, err = m.Register("page_intro")
	require.NoError(t, err)

	_, err = m.Register("PageIntro")
	var collision *erroring.NameCollisionError
	require.True(t, errors.As(err, &collision))
	require.Equal(t, "page_intro", collision.Name)
	require.Equal(t, []string{"page_intro", "PageIntro"}, collision.Sources)
	require.Equal(t, erroring.KindNameCollision, erroring.KindOf(err))
}

func TestRegisterReserved(t *testing.T) {
	m := New()
	m.Reserve("header")

	_, err := m.Register("header")
	var collision *erroring.NameCollisionError
	require.ErrorAs(t, err, &collision)
	require.Equal(t, []string{ReservedSource, "header"}, collision.Sources)

	mapped, err := m.Register("footer")
	require.NoError(t, err)
	require.Equal(t, "footer", mapped)
}

func TestRegisterEmpty(t *testing.T) {
	_, err := New().Register("--")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestMapped(t *testing.T) {
	m := New()
	_, _ = m.Register("SideBar")
	_, _ = m.Register("header")

	require.Equal(t, [][2]string{{"SideBar", "side_bar"}, {"header", "header"}}, m.Mapped())
}
