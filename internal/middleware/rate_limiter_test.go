package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiteurBloqueAuDelaDeLaLimite(t *testing.T) {
	l := newLimiteur(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := l.autoriser("10.0.0.1")
		require.True(t, ok)
	}
	ok, _ := l.autoriser("10.0.0.1")
	assert.False(t, ok)

	// Each IP counts in its own window.
	ok, _ = l.autoriser("10.0.0.2")
	assert.True(t, ok)
}

func TestLimiteurReinitialiseApresLaFenetre(t *testing.T) {
	l := newLimiteur(1, 10*time.Millisecond)

	ok, _ := l.autoriser("10.0.0.1")
	require.True(t, ok)
	ok, _ = l.autoriser("10.0.0.1")
	require.False(t, ok)

	time.Sleep(20 * time.Millisecond)
	ok, _ = l.autoriser("10.0.0.1")
	assert.True(t, ok, "an expired window must reopen the bucket")
}

func TestRateLimiterRepond429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimiter(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	appel := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		return w
	}

	assert.Equal(t, http.StatusOK, appel().Code)
	assert.Equal(t, http.StatusOK, appel().Code)

	w := appel()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
