package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/artisha/internal/model"
)

// ActiveSession returns the user recorded by the session marker.
// A missing or unparseable marker reads as "no session"; parse failures
// are logged.
func (s *Store) ActiveSession(ctx context.Context) (model.User, bool) {
	raw, ok, err := s.local.Get(ctx, KeyActiveSession)
	if err != nil {
		s.logger.Error("error reading session marker", "key", KeyActiveSession, "error", err)
		return model.User{}, false
	}
	if !ok {
		return model.User{}, false
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Error("error parsing session marker", "key", KeyActiveSession, "error", err)
		return model.User{}, false
	}
	return user, true
}

// SetActiveSession records user as the device's active session.
func (s *Store) SetActiveSession(ctx context.Context, user model.User) error {
	data, err := encodeJSON(user)
	if err != nil {
		return fmt.Errorf("marshal session marker: %w", err)
	}
	return s.local.Set(ctx, KeyActiveSession, data)
}

// ClearActiveSession removes the session marker.
func (s *Store) ClearActiveSession(ctx context.Context) error {
	return s.local.Remove(ctx, KeyActiveSession)
}

// StudioTranscript returns the saved creative-studio conversation from the
// session scope. The boolean is false when nothing usable is saved.
func (s *Store) StudioTranscript(ctx context.Context) ([]model.ChatMessage, bool) {
	c := collection[model.ChatMessage]{kv: s.session, key: KeyStudioChat}
	exists, err := s.session.Has(ctx, KeyStudioChat)
	if err != nil || !exists {
		return nil, false
	}
	msgs := c.load(ctx)
	return msgs, len(msgs) > 0
}

// SaveStudioTranscript stores the creative-studio conversation.
func (s *Store) SaveStudioTranscript(ctx context.Context, msgs []model.ChatMessage) error {
	c := collection[model.ChatMessage]{kv: s.session, key: KeyStudioChat}
	return c.save(ctx, msgs)
}

// ClearStudioTranscript drops the saved creative-studio conversation.
func (s *Store) ClearStudioTranscript(ctx context.Context) error {
	return s.session.Remove(ctx, KeyStudioChat)
}
