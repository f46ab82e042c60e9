package store

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPreferenceStore runs the same scenario against every implementation
func testPreferenceStore(t *testing.T, s PreferenceStore) {
	_, found, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("theme", "dark"))

	value, found, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", value)

	require.NoError(t, s.Set("theme", "light"))

	value, _, err = s.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)
}

func TestMemoryStore(t *testing.T) {
	testPreferenceStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "preferences.db")

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	testPreferenceStore(t, s)
	require.NoError(t, s.Close())

	// the value survives reopening the database
	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get("theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "light", value)
}

func TestCookieStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty request", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		testPreferenceStore(t, NewCookieStore(ctx, false))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "theme", cookies[len(cookies)-1].Name)
		assert.Equal(t, "light", cookies[len(cookies)-1].Value)
	})

	t.Run("incoming cookie", func(t *testing.T) {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		ctx.Request.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})

		value, found, err := NewCookieStore(ctx, false).Get("theme")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "dark", value)
	})

	t.Run("keys are independent cookies", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		s := NewCookieStore(ctx, true)

		require.NoError(t, s.Set("theme", "dark"))
		require.NoError(t, s.Set("language", "fr"))

		value, found, err := s.Get("language")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "fr", value)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 2)
		assert.True(t, cookies[0].Secure)
		assert.True(t, cookies[0].HttpOnly)
	})
}
