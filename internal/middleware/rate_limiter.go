package middleware

import (
	"net/http"
	"sync"
	"time"

	"auditex/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiteur is a fixed-window counter per client IP, memory-backed. Each
// guarded surface gets its own instance: the credential endpoints (login and
// self-registration) share a tight bucket, the API at large a loose one.
type limiteur struct {
	mu      sync.Mutex
	limite  int
	fenetre time.Duration
	entrees map[string]*entreeIP
}

type entreeIP struct {
	compteur   int
	finFenetre time.Time
}

func newLimiteur(limite int, fenetre time.Duration) *limiteur {
	l := &limiteur{
		limite:  limite,
		fenetre: fenetre,
		entrees: make(map[string]*entreeIP),
	}
	go l.purger()
	return l
}

// autoriser counts the request and reports whether it stays within the
// window, along with the window end for the Retry-After header.
func (l *limiteur) autoriser(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.entrees[ip]
	if !ok || now.After(e.finFenetre) {
		e = &entreeIP{finFenetre: now.Add(l.fenetre)}
		l.entrees[ip] = e
	}
	e.compteur++
	return e.compteur <= l.limite, e.finFenetre
}

// purger drops expired windows so IPs that never return do not accumulate.
func (l *limiteur) purger() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purgees := 0
		for ip, e := range l.entrees {
			if now.After(e.finFenetre) {
				delete(l.entrees, ip)
				purgees++
			}
		}
		l.mu.Unlock()
		if purgees > 0 {
			log.Debug().Int("entrees_purgees", purgees).Msg("rate limiter: fenêtres expirées purgées")
		}
	}
}

func (l *limiteur) handler(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, finFenetre := l.autoriser(ip)
		if !ok {
			log.Warn().
				Str("ip", ip).
				Str("path", c.Request.URL.Path).
				Msg("rate limiter: requête rejetée")
			c.Header("Retry-After", finFenetre.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

// limiteurLogin is shared by /auth/login and the public registration
// endpoint: both accept unauthenticated credentials.
var limiteurLogin = newLimiteur(10, time.Minute)

// LoginRateLimiter guards the credential endpoints: 10 attempts per minute
// per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limiteurLogin.handler("Trop de tentatives. Réessayez dans 1 minute.")
}

// RateLimiter returns a general-purpose per-IP limiter for the API surface.
func RateLimiter(limite int, fenetre time.Duration) gin.HandlerFunc {
	return newLimiteur(limite, fenetre).handler("Trop de requêtes. Réessayez dans un instant.")
}
