package appstate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/roach88/artisha/internal/model"
	"github.com/roach88/artisha/internal/store"
)

// Store is the application state store.
//
// Thread-safety: Store operations are serialized by an internal mutex, so the
// analytics task may run alongside user operations.
type Store struct {
	mu sync.Mutex

	db       *store.Store
	seed     store.Seed
	clock    Clock
	ids      IDGenerator
	logger   *slog.Logger
	rng      *rand.Rand
	notifier *Notifier

	users         []model.User
	products      []model.Product
	orders        []model.Order
	reviews       []model.Review
	messages      []model.Message
	analytics     []model.AnalyticsMetric
	newOrderCount int
	booted        bool

	tasks []*Task
}

type options struct {
	clock         Clock
	ids           IDGenerator
	logger        *slog.Logger
	rng           *rand.Rand
	alertCapacity int
	hook          func(model.Notification)
}

// Option configures a Store.
type Option func(*options)

// WithClock sets the time source for record dates and analytics samples.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDGenerator sets the record id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) { o.ids = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRand sets the random source used by the analytics ticker.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithAlertCapacity sets the size of the alert ring.
func WithAlertCapacity(n int) Option {
	return func(o *options) { o.alertCapacity = n }
}

// WithNotificationHook registers fn to observe every notification and alert
// as it is pushed. fn must not call back into the Store.
func WithNotificationHook(fn func(model.Notification)) Option {
	return func(o *options) { o.hook = fn }
}

// New creates a Store over db. Nothing is read until Bootstrap.
func New(db *store.Store, seed store.Seed, opts ...Option) *Store {
	o := options{
		clock:  SystemClock{},
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}

	n := NewNotifier(o.ids, o.alertCapacity)
	n.setHook(o.hook)

	return &Store{
		db:       db,
		seed:     seed,
		clock:    o.clock,
		ids:      o.ids,
		logger:   o.logger,
		rng:      o.rng,
		notifier: n,
	}
}

// Bootstrap seeds absent collections, loads every collection into memory,
// and restores the session recorded by the device-local marker.
// The returned session is anonymous when no marker is present.
//
// Calling Bootstrap again reloads state from storage.
func (s *Store) Bootstrap(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Init(ctx, s.seed); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	s.users = s.db.Users().GetAll(ctx)
	s.products = s.db.Products().GetAll(ctx)
	s.orders = s.db.Orders().GetAll(ctx)
	s.reviews = s.db.Reviews().GetAll(ctx)
	s.messages = s.db.Messages().GetAll(ctx)
	s.analytics = s.db.Analytics().GetRecent(ctx)
	s.booted = true

	sess := NewSession()
	if user, ok := s.db.ActiveSession(ctx); ok {
		sess.activate(user, s.db.Wishlist().GetUserWishlist(ctx, user.ID))
		s.logger.Info("restored session", "user", user.ID)
	}

	s.logger.Debug("state loaded",
		"users", len(s.users),
		"products", len(s.products),
		"orders", len(s.orders))
	return sess, nil
}

// Close stops every background task the Store started.
// The persistence layer is owned by the caller and left open.
func (s *Store) Close() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	for _, t := range tasks {
		t.Stop()
	}
}

// Notifier returns the notification subsystem.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Notify pushes a user-facing notification.
func (s *Store) Notify(typ model.NotificationType, message string) model.Notification {
	return s.notifier.Notify(typ, message)
}

// RemoveNotification drops a notification from the full list.
func (s *Store) RemoveNotification(id string) {
	s.notifier.Remove(id)
}

// ClearAlerts empties the alert ring.
func (s *Store) ClearAlerts() {
	s.notifier.ClearAlerts()
}

// Users returns all accounts.
func (s *Store) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

// Products returns the catalog.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Product returns the catalog entry with id.
func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.products, func(p model.Product) bool { return p.ID == id })
}

// Orders returns every order, newest first.
func (s *Store) Orders() []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// Reviews returns every review.
func (s *Store) Reviews() []model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reviews)
}

// ProductReviews returns the reviews for productID.
func (s *Store) ProductReviews(productID string) []model.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Filter(s.reviews, func(r model.Review, _ int) bool { return r.ProductID == productID })
}

// Messages returns the inbox, newest first.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Analytics returns the retained analytics samples, oldest first.
func (s *Store) Analytics() []model.AnalyticsMetric {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.analytics)
}

// NewOrderCount returns the number of orders placed since the counter was
// last cleared.
func (s *Store) NewOrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newOrderCount
}

// Snapshot is a read model of the whole store as seen by one session.
type Snapshot struct {
	User          *model.User             `json:"user,omitempty"`
	Users         []model.User            `json:"users"`
	Products      []model.Product         `json:"products"`
	Cart          []model.CartItem        `json:"cart"`
	CartTotal     int64                   `json:"cartTotal"`
	Orders        []model.Order           `json:"orders"`
	UserOrders    []model.Order           `json:"userOrders"`
	Reviews       []model.Review          `json:"reviews"`
	Messages      []model.Message         `json:"messages"`
	Wishlist      []string                `json:"wishlist"`
	Analytics     []model.AnalyticsMetric `json:"analytics"`
	Notifications []model.Notification    `json:"notifications"`
	Alerts        []model.Notification    `json:"alerts"`
	NewOrderCount int                     `json:"newOrderCount"`
}

// Snapshot returns a copy of all state visible to sess.
func (s *Store) Snapshot(sess *Session) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Users:         slices.Clone(s.users),
		Products:      slices.Clone(s.products),
		Cart:          sess.Cart(),
		CartTotal:     sess.CartTotal(),
		Orders:        slices.Clone(s.orders),
		UserOrders:    s.userOrdersLocked(sess),
		Reviews:       slices.Clone(s.reviews),
		Messages:      slices.Clone(s.messages),
		Wishlist:      sess.Wishlist(),
		Analytics:     slices.Clone(s.analytics),
		Notifications: s.notifier.All(),
		Alerts:        s.notifier.Alerts(),
		NewOrderCount: s.newOrderCount,
	}
	if user, ok := sess.User(); ok {
		snap.User = &user
	}
	return snap
}

// fail emits an error-shaped notification and returns the matching *Error.
func (s *Store) fail(typ model.NotificationType, code ErrorCode, message string) error {
	s.notifier.Notify(typ, message)
	return &Error{Code: code, Message: message}
}

// deny notifies about an authorization failure and returns it unchanged.
func (s *Store) deny(err error) error {
	var typ model.NotificationType = model.NotifyError
	if IsCode(err, ErrCodeNotLoggedIn) {
		typ = model.NotifyInfo
	}
	if e, ok := err.(*Error); ok {
		s.notifier.Notify(typ, e.Message)
	}
	return err
}

// persistFailed logs a storage write failure, tells the user, and wraps err.
func (s *Store) persistFailed(op string, err error) error {
	s.logger.Error("write-through failed", "op", op, "error", err)
	s.notifier.Notify(model.NotifyError, "Something went wrong. Please try again.")
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) now() time.Time {
	return s.clock.Now()
}

func (s *Store) timestamp() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}
