package appstate

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
)

// DefaultAlertCapacity is the size of the alert ring.
const DefaultAlertCapacity = 10

// Notifier holds the full notification list and the bounded, newest-first
// alert ring shown in the bell dropdown.
//
// Thread-safety: Notifier is safe for concurrent use. The hook runs with the
// Notifier's lock released and must not block.
type Notifier struct {
	mu       sync.Mutex
	all      []model.Notification
	alerts   []model.Notification
	capacity int
	ids      IDGenerator
	hook     func(model.Notification)
}

// NewNotifier creates a Notifier whose alert ring holds capacity entries.
// A non-positive capacity selects DefaultAlertCapacity.
func NewNotifier(ids IDGenerator, capacity int) *Notifier {
	if capacity <= 0 {
		capacity = DefaultAlertCapacity
	}
	return &Notifier{capacity: capacity, ids: ids}
}

// Notify appends a notification to the full list and prepends it to the
// alert ring.
func (n *Notifier) Notify(typ model.NotificationType, message string) model.Notification {
	note := model.Notification{ID: n.ids.NewID("n"), Type: typ, Message: message}

	n.mu.Lock()
	n.all = append(n.all, note)
	n.pushAlertLocked(note)
	hook := n.hook
	n.mu.Unlock()

	if hook != nil {
		hook(note)
	}
	return note
}

// Alert pushes a standing alert into the ring only. recipient names the user
// it is addressed to.
func (n *Notifier) Alert(typ model.NotificationType, message, recipient string) model.Notification {
	note := model.Notification{ID: n.ids.NewID("n"), Type: typ, Message: message, Recipient: recipient}

	n.mu.Lock()
	n.pushAlertLocked(note)
	hook := n.hook
	n.mu.Unlock()

	if hook != nil {
		hook(note)
	}
	return note
}

func (n *Notifier) pushAlertLocked(note model.Notification) {
	alerts := make([]model.Notification, 0, n.capacity)
	alerts = append(alerts, note)
	alerts = append(alerts, n.alerts...)
	if len(alerts) > n.capacity {
		alerts = alerts[:n.capacity]
	}
	n.alerts = alerts
}

// Remove drops the notification with id from the full list.
func (n *Notifier) Remove(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.all = lo.Reject(n.all, func(note model.Notification, _ int) bool {
		return note.ID == id
	})
}

// ClearAlerts empties the alert ring.
func (n *Notifier) ClearAlerts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = nil
}

// All returns the full notification list, oldest first.
func (n *Notifier) All() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.all)
}

// Alerts returns the alert ring, newest first.
func (n *Notifier) Alerts() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.alerts)
}

// AlertsFor returns the alerts visible to userID: general alerts plus
// those addressed to userID.
func (n *Notifier) AlertsFor(userID string) []model.Notification {
	return lo.Filter(n.Alerts(), func(note model.Notification, _ int) bool {
		return note.Recipient == "" || note.Recipient == userID
	})
}

func (n *Notifier) setHook(hook func(model.Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hook = hook
}
