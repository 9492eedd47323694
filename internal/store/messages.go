package store

import (
	"context"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// Messages is the contact-message collection, stored newest first.
type Messages struct {
	c collection[model.Message]
}

// Messages returns the contact-message collection.
func (s *Store) Messages() Messages {
	return Messages{c: collection[model.Message]{kv: s.local, key: KeyMessages}}
}

// GetAll returns every message, newest first.
func (m Messages) GetAll(ctx context.Context) []model.Message {
	return m.c.load(ctx)
}

// Add prepends a message.
func (m Messages) Add(ctx context.Context, msg model.Message) error {
	messages := append([]model.Message{msg}, m.c.load(ctx)...)
	return m.c.save(ctx, messages)
}

// MarkRead sets the read flag on the message with the given ID.
// Unknown IDs are ignored.
func (m Messages) MarkRead(ctx context.Context, id string) error {
	messages := m.c.load(ctx)
	_, idx, ok := lo.FindIndexOf(messages, func(msg model.Message) bool {
		return msg.ID == id
	})
	if !ok {
		return nil
	}
	messages[idx].Read = true
	return m.c.save(ctx, messages)
}

// Delete removes the message with the given ID.
func (m Messages) Delete(ctx context.Context, id string) error {
	messages := lo.Reject(m.c.load(ctx), func(msg model.Message, _ int) bool {
		return msg.ID == id
	})
	return m.c.save(ctx, messages)
}
