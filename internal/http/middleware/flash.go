package middleware

import (
	"github.com/gin-gonic/gin"
)

// Flash categories understood by the templates, in display order.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
)

var flashCategories = []string{FlashSuccess, FlashInfo}

// FlashMessage is a one-time notice shown on the next rendered page.
type FlashMessage struct {
	Category string
	Message  string
}

// AddFlash queues a message for the next rendered page. category must be
// one of the Flash constants. It must be called before the response is
// written (typically right before a redirect). Without the Session
// middleware it is a no-op.
func AddFlash(c *gin.Context, category, message string) {
	s := sessionFrom(c)
	if s == nil {
		return
	}
	s.AddFlash(message, category)
	if err := s.Save(); err != nil {
		LoggerFrom(c).Error().Err(err).Msg("save flash")
	}
}

// Flashes pops the queued messages. Call it only when the messages are
// about to be shown; anything else would drop them unseen.
func Flashes(c *gin.Context) []FlashMessage {
	s := sessionFrom(c)
	if s == nil {
		return nil
	}
	var out []FlashMessage
	for _, cat := range flashCategories {
		for _, v := range s.Flashes(cat) {
			if m, ok := v.(string); ok {
				out = append(out, FlashMessage{Category: cat, Message: m})
			}
		}
	}
	if len(out) > 0 {
		if err := s.Save(); err != nil {
			LoggerFrom(c).Error().Err(err).Msg("clear flash")
		}
	}
	return out
}
