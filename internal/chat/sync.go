// Package chat keeps a local, render-ready view of one conversation
// converged with server state. The backend is polled on a fixed interval;
// there is no push channel. A refresh that returns an identical message
// list reports "unchanged" so the screen skips the re-render.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/models"
)

// ErrEmptyMessage is returned by Send when the text is empty after trimming.
var ErrEmptyMessage = errors.New("message is empty")

// Controller owns the message list and resolved participant for a single
// conversation screen. It is created on mount, refreshed while mounted and
// closed on unmount; nothing survives the screen.
//
// Methods are safe for concurrent use: the poll tick and a user-triggered
// send run as separate goroutines and may overlap.
type Controller struct {
	client         *api.Client
	log            *zap.Logger
	conversationID int
	viewer         string

	mu          sync.Mutex
	closed      bool
	ready       bool
	messages    []models.Message
	baseline    []byte
	baselineLen int
	participant *models.Participant
}

// NewController creates a controller for the conversation as seen by viewer.
func NewController(client *api.Client, conversationID int, viewer string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		client:         client,
		log:            log,
		conversationID: conversationID,
		viewer:         viewer,
	}
}

// Refresh fetches the authoritative message list and reconciles it into
// local state. It reports whether the list changed; an unchanged poll must
// not trigger a re-render. Fetch errors are logged and leave the previous
// state untouched, so a transient failure never blanks a populated view.
func (c *Controller) Refresh(ctx context.Context) bool {
	if c.conversationID <= 0 || c.viewer == "" {
		return false
	}

	fetched, err := c.client.Messages(ctx, c.conversationID, c.viewer)
	if err != nil {
		c.log.Warn("message refresh failed",
			zap.Int("conversation_id", c.conversationID),
			zap.Error(err))
		return false
	}

	encoded, err := json.Marshal(fetched)
	if err != nil {
		c.log.Warn("failed to encode message list", zap.Error(err))
		return false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	changed := len(fetched) != c.baselineLen || !bytes.Equal(encoded, c.baseline)
	if changed {
		c.messages = fetched
		c.baseline = encoded
		c.baselineLen = len(fetched)
	}
	c.ready = true
	needParticipant := c.participant == nil
	c.mu.Unlock()

	if needParticipant {
		c.resolveParticipant(ctx, fetched)
	}

	return changed
}

// resolveParticipant works out who the other user is and fetches their
// profile. Resolution happens at most once per controller lifetime; a
// failure leaves the participant unset and is retried on the next refresh.
func (c *Controller) resolveParticipant(ctx context.Context, fetched []models.Message) {
	handle := c.otherSender(fetched)
	if handle == "" {
		handle = c.otherFromConversationList(ctx)
	}
	if handle == "" {
		return
	}

	profile, err := c.client.ParticipantProfile(ctx, handle)
	if err != nil {
		c.log.Warn("participant profile fetch failed",
			zap.String("username", handle),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	if !c.closed && c.participant == nil {
		c.participant = &profile
	}
	c.mu.Unlock()
}

// otherSender derives the other participant's handle from the sender set:
// two senders where one is the viewer means the other one; a single sender
// that is not the viewer means the viewer has not replied yet. Anything
// else is ambiguous and falls through to the conversation-list lookup.
func (c *Controller) otherSender(messages []models.Message) string {
	seen := make(map[string]bool)
	var senders []string
	for _, m := range messages {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			senders = append(senders, m.Sender)
		}
	}

	switch len(senders) {
	case 1:
		if senders[0] != c.viewer {
			return senders[0]
		}
	case 2:
		if seen[c.viewer] {
			for _, s := range senders {
				if s != c.viewer {
					return s
				}
			}
		}
	}
	return ""
}

func (c *Controller) otherFromConversationList(ctx context.Context) string {
	previews, err := c.client.Conversations(ctx, c.viewer)
	if err != nil {
		c.log.Warn("conversation list fallback failed", zap.Error(err))
		return ""
	}

	for _, preview := range previews {
		if preview.ID != c.conversationID {
			continue
		}
		for _, p := range preview.Participants {
			if p.Username != c.viewer {
				return p.Username
			}
		}
	}
	return ""
}

// Send trims and submits text, then appends the server-returned message so
// the sender sees it without waiting for the next poll. The appended copy is
// the server's own object, so the next authoritative list is structurally
// consistent with it. On failure nothing is appended and the caller should
// restore the trimmed text into the input.
func (c *Controller) Send(ctx context.Context, text string) (models.Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Message{}, ErrEmptyMessage
	}

	sent, err := c.client.SendMessage(ctx, c.conversationID, c.viewer, trimmed)
	if err != nil {
		c.log.Warn("message send failed",
			zap.Int("conversation_id", c.conversationID),
			zap.Error(err))
		return models.Message{}, err
	}

	c.mu.Lock()
	if !c.closed {
		c.messages = append(c.messages, sent)
	}
	c.mu.Unlock()

	return sent, nil
}

// Close marks the controller dead. Results of in-flight refreshes or sends
// are discarded after Close; the screen that owned the controller is gone.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Ready reports whether the first successful fetch has completed.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Messages returns a copy of the current message list, oldest first.
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Participant returns the resolved other participant, or nil while unknown.
func (c *Controller) Participant() *models.Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.participant == nil {
		return nil
	}
	p := *c.participant
	return &p
}

// ConversationID returns the conversation this controller tracks.
func (c *Controller) ConversationID() int {
	return c.conversationID
}
