package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const streamHeartbeat = 15 * time.Second

// stream relays next() to the client as server-sent events until next
// reports false or the client goes away. A ping event is sent while idle.
func stream(c *gin.Context, heartbeat time.Duration, next func(ctx context.Context) (event string, data any, ok bool)) {
	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	type message struct {
		event string
		data  any
	}
	msgs := make(chan message)

	go func() {
		defer close(msgs)
		for {
			event, data, ok := next(ctx)
			if !ok {
				return
			}
			select {
			case msgs <- message{event, data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case m, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent(m.event, m.data)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
}
