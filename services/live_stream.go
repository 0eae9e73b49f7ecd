package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"tennis-live-scoring/models"
	"tennis-live-scoring/scoring"
)

// streamUpdate is one SSE message: the new timeline entry with the score
// as it stands after it.
type streamUpdate struct {
	Event models.MatchEvent `json:"event"`
	View  scoring.MatchView `json:"view"`
}

// StreamSession handles GET /live-scoring/sessions/:id/stream
//
// It pushes every new timeline entry as an SSE message until the client
// goes away or the match ends.
func (s *LiveScoringService) StreamSession(c *fiber.Ctx) error {
	sessionID := strings.Clone(c.Params("id"))
	view, err := s.GetSessionView(c.UserContext(), sessionID)
	if err != nil {
		return respondError(c, err)
	}
	lastSeq := int64(0)
	if after := c.QueryInt("after", -1); after >= 0 {
		lastSeq = int64(after)
	} else if events, err := s.Timeline(c.UserContext(), sessionID, 0); err == nil && len(events) > 0 {
		lastSeq = events[len(events)-1].Sequence
	}

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	reqCtx := c.Context()
	interval := s.StreamPollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	initial := *view

	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-reqCtx.Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		if err := s.streamLoop(ctx, w, sessionID, lastSeq, initial, interval); err != nil {
			log.Printf("[STREAM] Session %s stream closed: %v", sessionID, err)
		}
	})
	return nil
}

// streamLoop writes the current score, then polls for new events. It
// returns nil once the match-end event has been sent.
func (s *LiveScoringService) streamLoop(ctx context.Context, w *bufio.Writer, sessionID string, lastSeq int64, initial scoring.MatchView, interval time.Duration) error {
	payload, _ := json.Marshal(initial)
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	if err := w.Flush(); err != nil {
		return err
	}
	if initial.Session.Status == models.StatusCompleted {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			events, err := s.Timeline(ctx, sessionID, lastSeq)
			if err != nil {
				log.Printf("[STREAM] Query error for session %s: %v", sessionID, err)
				continue
			}
			if len(events) == 0 {
				// Keepalive comment so proxies and dead clients are noticed.
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return err
				}
				continue
			}

			view, err := s.GetSessionView(ctx, sessionID)
			if err != nil {
				log.Printf("[STREAM] View error for session %s: %v", sessionID, err)
				continue
			}
			ended := false
			for _, ev := range events {
				payload, _ := json.Marshal(streamUpdate{Event: ev, View: *view})
				fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Sequence, ev.Type, payload)
				lastSeq = ev.Sequence
				if ev.Type == models.EventMatchEnd {
					ended = true
				}
			}
			if err := w.Flush(); err != nil {
				// Client disconnected
				return err
			}
			if ended {
				return nil
			}

		case <-ctx.Done():
			return nil
		}
	}
}
