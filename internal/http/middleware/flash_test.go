package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func flashRouter(secret []byte, seen *[]FlashMessage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(SessionOptions{Secret: secret}))
	r.POST("/add", func(c *gin.Context) {
		AddFlash(c, FlashSuccess, "Pet added successfully!")
		AddFlash(c, FlashInfo, "second")
		c.Redirect(http.StatusFound, "/")
	})
	r.GET("/", func(c *gin.Context) {
		*seen = Flashes(c)
		c.String(http.StatusOK, "home")
	})
	// Never shows flashes, like plain-text or asset routes.
	r.GET("/plain", func(c *gin.Context) { c.String(http.StatusOK, "plain") })
	return r
}

// lastCookie returns the final Set-Cookie for name, which is what a
// browser keeps.
func lastCookie(resp *http.Response, name string) *http.Cookie {
	var found *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			found = ck
		}
	}
	return found
}

func serveWith(r *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFlash_RoundTripShownOnce(t *testing.T) {
	var seen []FlashMessage
	r := flashRouter(testSecret, &seen)

	w := serveWith(r, http.MethodPost, "/add")
	require.Equal(t, http.StatusFound, w.Code)
	ck := lastCookie(w.Result(), DefaultSessionCookie)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	w = serveWith(r, http.MethodGet, "/", ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []FlashMessage{
		{Category: FlashSuccess, Message: "Pet added successfully!"},
		{Category: FlashInfo, Message: "second"},
	}, seen)

	after := lastCookie(w.Result(), DefaultSessionCookie)
	require.NotNil(t, after, "session must be rewritten once flashes are read")

	seen = nil
	serveWith(r, http.MethodGet, "/", after)
	assert.Empty(t, seen)
}

func TestFlash_KeptUntilAPageReadsThem(t *testing.T) {
	var seen []FlashMessage
	r := flashRouter(testSecret, &seen)

	ck := lastCookie(serveWith(r, http.MethodPost, "/add").Result(), DefaultSessionCookie)
	require.NotNil(t, ck)

	w := serveWith(r, http.MethodGet, "/plain", ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Values("Set-Cookie"), "routes that do not read flashes leave the session alone")

	serveWith(r, http.MethodGet, "/", ck)
	assert.Len(t, seen, 2)
}

func TestFlash_TamperedCookieIgnored(t *testing.T) {
	var seen []FlashMessage
	r := flashRouter(testSecret, &seen)

	// Signed with another key.
	var other []FlashMessage
	foreign := flashRouter([]byte("another-secret-another-secret!!!"), &other)
	ck := lastCookie(serveWith(foreign, http.MethodPost, "/add").Result(), DefaultSessionCookie)
	require.NotNil(t, ck)

	serveWith(r, http.MethodGet, "/", ck)
	assert.Empty(t, seen)

	// Garbage value.
	serveWith(r, http.MethodGet, "/", &http.Cookie{Name: DefaultSessionCookie, Value: "not-signed"})
	assert.Empty(t, seen)
}

func TestAddFlash_NoMiddlewareIsNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	AddFlash(c, FlashSuccess, "x")
	assert.Empty(t, w.Header().Values("Set-Cookie"))
	assert.Nil(t, Flashes(c))
}
