// Package handlers provides the HTML handlers of the adoption site.
//
// This file holds the rendering helpers shared by every page. Pages are
// rendered through render(), which adds the values the shared layout needs
// (flash messages, CSRF token, species options). Failures go through fail(),
// which renders error.html with a stable code and the request id and logs
// server-side errors with the request-scoped logger. Error pages leave
// queued flash messages for the next real page.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-adoption/internal/domain"
	"github.com/tbourn/go-pet-adoption/internal/forms"
	"github.com/tbourn/go-pet-adoption/internal/http/middleware"
)

// render writes the named template with data plus the layout values.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = middleware.Flashes(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	data["CSRFField"] = forms.FieldCSRF
	data["Species"] = domain.AllSpecies
	c.HTML(status, name, data)
}

// fail aborts the request with the error page. Errors >= 500 are logged
// at error level; others at debug.
func fail(c *gin.Context, status int, code, msg string) {
	rid := c.Writer.Header().Get("X-Request-ID")

	lg := middleware.LoggerFrom(c)
	ev := lg.Debug()
	if status >= http.StatusInternalServerError {
		ev = lg.Error()
	}
	ev.Int("status", status).Str("code", code).Str("message", msg).Msg("page error")

	c.HTML(status, "error.html", gin.H{
		"Title":      http.StatusText(status),
		"Status":     status,
		"StatusText": http.StatusText(status),
		"Code":       code,
		"Message":    msg,
		"RequestID":  rid,
	})
	c.Abort()
}

// Fail is the exported variant of fail() for the router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// notFound renders the 404 page used for unknown or malformed pet ids.
func notFound(c *gin.Context) {
	fail(c, http.StatusNotFound, ErrCodeNotFound, "The requested pet could not be found.")
}

// redirect answers a successful form submission.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
