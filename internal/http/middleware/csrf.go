package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gincsrf "github.com/utrack/gin-csrf"
)

const (
	csrfOnKey  = "csrf.enabled"
	csrfErrKey = "csrf.error"

	// DefaultCSRFField is the form field carrying the token.
	DefaultCSRFField = "csrf_token"
)

// CSRF failure messages, surfaced as errors on the csrf_token form field.
const (
	CSRFMissing = "The CSRF token is missing."
	CSRFInvalid = "The CSRF token is invalid."
)

// CSRFOptions configures the CSRF middleware.
type CSRFOptions struct {
	Secret    []byte
	FieldName string // defaults to DefaultCSRFField
}

// CSRF checks unsafe requests with utrack/gin-csrf: the session keeps a
// random salt and the form token is derived from it and Secret. A failed
// check does not abort; the outcome is recorded for CSRFError so form
// handlers can re-render with a field error. Requires Session.
func CSRF(opt CSRFOptions) gin.HandlerFunc {
	field := opt.FieldName
	if field == "" {
		field = DefaultCSRFField
	}

	check := gincsrf.Middleware(gincsrf.Options{
		Secret:        string(opt.Secret),
		IgnoreMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace},
		TokenGetter: func(c *gin.Context) string {
			return c.PostForm(field)
		},
		ErrorFunc: func(c *gin.Context) {
			if c.PostForm(field) == "" {
				c.Set(csrfErrKey, CSRFMissing)
				return
			}
			c.Set(csrfErrKey, CSRFInvalid)
		},
	})

	return func(c *gin.Context) {
		c.Set(csrfOnKey, true)
		// On failure check returns without calling Next; gin then moves on
		// to the handler, which reads CSRFError.
		check(c)
	}
}

// CSRFToken returns the token to embed in forms, or "" when CSRF is off.
// The first call in a session stores a new salt in the session cookie.
func CSRFToken(c *gin.Context) string {
	if !c.GetBool(csrfOnKey) {
		return ""
	}
	return gincsrf.GetToken(c)
}

// CSRFError returns the failure message for this submission, or "" when
// the token was valid or CSRF checking is off.
func CSRFError(c *gin.Context) string {
	v, _ := c.Get(csrfErrKey)
	return asString(v)
}
