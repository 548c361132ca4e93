package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"teakspice-storefront/internal/render"
	"teakspice-storefront/internal/session"
)

const (
	eventBuffer   = 32
	keepAliveTick = 15 * time.Second
)

// events streams session changes as server-sent events. The stream opens
// with the current cart, panels and tracker so the page can render without
// a separate fetch.
func (s *Server) events(c *gin.Context) {
	sess := currentSession(c)
	ch, cancel := sess.Subscribe(eventBuffer)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent(string(session.EventCart), s.render.Cart(sess.Cart()))
	c.SSEvent(string(session.EventPanels), render.PanelsView(sess.Panels()))
	c.SSEvent(string(session.EventTracker), s.render.Tracker(sess.TrackerStatus()))
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveTick)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-keepAlive.C:
			c.SSEvent("ping", s.now().Unix())
			return true
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), s.eventPayload(ev))
			return true
		}
	})
}

func (s *Server) eventPayload(ev session.Event) any {
	switch ev.Kind {
	case session.EventCart:
		return s.render.Cart(ev.Cart)
	case session.EventOrder:
		return s.render.Order(*ev.Order)
	case session.EventTracker:
		return s.render.Tracker(*ev.Tracker)
	case session.EventPanels:
		return render.PanelsView(ev.Panels)
	default:
		return nil
	}
}
