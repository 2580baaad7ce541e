// Package push builds and delivers the card's push notifications and
// routes the action the user picks.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"lovestory/internal/capability"
)

const (
	DefaultTitle = "Love Story 💕"
	DefaultBody  = "New memory added to your love story! 💕"

	ActionView  = "view"
	ActionClose = "close"
)

// Payload is an incoming push message. Only the body text is meaningful.
type Payload struct {
	Body string `json:"body"`
}

// ParsePayload accepts either a JSON object with a "body" field or plain
// text. Empty input yields the default body.
func ParsePayload(data []byte) Payload {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return Payload{}
	}
	var p Payload
	if strings.HasPrefix(s, "{") && json.Unmarshal([]byte(s), &p) == nil {
		return p
	}
	return Payload{Body: s}
}

// Notification renders p with the fixed title and actions.
func (p Payload) Notification() capability.Notification {
	body := p.Body
	if body == "" {
		body = DefaultBody
	}
	return capability.Notification{
		Title: DefaultTitle,
		Body:  body,
		Actions: []capability.Action{
			{ID: ActionView, Label: "View Memory"},
			{ID: ActionClose, Label: "Close"},
		},
	}
}

// Outcome is what a delivered notification led to.
type Outcome int

const (
	Dismissed Outcome = iota
	OpenCard
)

// HandleAction maps a notification action to its outcome. "view" opens the
// card at its first section; anything else only dismisses.
func HandleAction(action string) Outcome {
	if action == ActionView {
		return OpenCard
	}
	return Dismissed
}

// Deliver shows p through n and returns the resulting outcome. An absent
// notifier is reported as capability.ErrUnavailable.
func Deliver(ctx context.Context, n capability.Notifier, p Payload, log *zap.Logger) (Outcome, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if n == nil || !n.Available() {
		return Dismissed, fmt.Errorf("deliver push: %w", capability.ErrUnavailable)
	}
	note := p.Notification()
	action, err := n.Notify(ctx, note)
	if err != nil {
		return Dismissed, fmt.Errorf("deliver push: %w", err)
	}
	out := HandleAction(action)
	log.Info("push delivered", zap.String("body", note.Body), zap.String("action", action))
	return out, nil
}
