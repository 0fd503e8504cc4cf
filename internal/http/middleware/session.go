package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// DefaultSessionCookie names the signed cookie holding flash messages and
// the CSRF salt.
const DefaultSessionCookie = "session"

// SessionOptions configures the cookie-backed session.
type SessionOptions struct {
	Name   string // defaults to DefaultSessionCookie
	Secret []byte // signs the cookie
	Secure bool   // mark the cookie Secure
}

// Session installs a gin-contrib/sessions cookie store. The cookie is only
// written when a handler changes the session and saves it.
func Session(opt SessionOptions) gin.HandlerFunc {
	name := opt.Name
	if name == "" {
		name = DefaultSessionCookie
	}
	store := cookie.NewStore(opt.Secret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   opt.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(name, store)
}

// sessionFrom returns the request session, or nil when Session is not
// installed.
func sessionFrom(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}
