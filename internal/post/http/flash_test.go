package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/blog/internal/errors"
)

func newFlashContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		c.Request.AddCookie(cookie)
	}
	return c, w
}

func issueFlash(t *testing.T, store *FlashStore, messages ...string) *http.Cookie {
	t.Helper()

	var cookie *http.Cookie
	for _, msg := range messages {
		var c *gin.Context
		var w *httptest.ResponseRecorder
		if cookie == nil {
			c, w = newFlashContext()
		} else {
			c, w = newFlashContext(cookie)
		}
		require.NoError(t, store.Add(c, msg))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie = cookies[0]
	}
	return cookie
}

func TestFlashStore(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		store := newFlashStore(staticSecrets{value: testSigningKey})
		cookie := issueFlash(t, store, "first", "second")

		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		c, _ := newFlashContext(cookie)
		assert.Equal(t, []string{"first", "second"}, store.Pop(c))
	})

	t.Run("Success_NoCookie", func(t *testing.T) {
		store := newFlashStore(staticSecrets{value: testSigningKey})
		c, w := newFlashContext()

		assert.Nil(t, store.Pop(c))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Error_WrongKeyDiscarded", func(t *testing.T) {
		cookie := issueFlash(t, newFlashStore(staticSecrets{value: "other-key"}), "forged")
		store := newFlashStore(staticSecrets{value: testSigningKey})

		c, _ := newFlashContext(cookie)
		assert.Nil(t, store.Pop(c))
	})

	t.Run("Error_ExpiredDiscarded", func(t *testing.T) {
		store := newFlashStore(staticSecrets{value: testSigningKey})
		cookie := issueFlash(t, store, "stale")

		store.now = func() time.Time { return time.Now().Add(flashTTL + time.Minute) }
		c, _ := newFlashContext(cookie)
		assert.Nil(t, store.Pop(c))
	})

	t.Run("Error_KeyUnavailable", func(t *testing.T) {
		cookie := issueFlash(t, newFlashStore(staticSecrets{value: testSigningKey}), "lost")
		store := newFlashStore(staticSecrets{err: apperrors.ErrSecretUnavailable})

		c, w := newFlashContext(cookie)
		assert.Nil(t, store.Pop(c))
		// The unreadable cookie is still cleared.
		require.Len(t, w.Result().Cookies(), 1)

		c, _ = newFlashContext()
		assert.ErrorIs(t, store.Add(c, "msg"), apperrors.ErrSecretUnavailable)
	})
}

func TestRenderMarkdown(t *testing.T) {
	assert.Contains(t, string(renderMarkdown("# Heading")), "<h1>Heading</h1>")
	assert.Contains(t, string(renderMarkdown("line one\nline two")), "<br")
	assert.NotContains(t, string(renderMarkdown(`<img src=x onerror="alert(1)">`)), "onerror")
}
