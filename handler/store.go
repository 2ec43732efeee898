package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/cache"
	"github.com/dmitrymomot/activeform/pkg/logger"
)

// Session is one live form served to one visitor.
type Session struct {
	Form   *form.Form
	Fields []field.Field
	Title  string
	Submit string
}

// Field returns the field declared for attribute.
func (s *Session) Field(attribute string) (field.Field, bool) {
	for _, fd := range s.Fields {
		if fd.Attribute == attribute {
			return fd, true
		}
	}
	return field.Field{}, false
}

// StoreConfig sizes the live form store.
type StoreConfig struct {
	Capacity      int           `env:"ACTIVEFORM_STORE_CAPACITY" envDefault:"1024"`
	TTL           time.Duration `env:"ACTIVEFORM_STORE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"ACTIVEFORM_STORE_SWEEP_INTERVAL" envDefault:"1m"`
}

// Store keeps live forms keyed by form id. Forms idle for longer than the
// TTL, or pushed out by newer ones, are dropped.
type Store struct {
	forms *cache.LRU[string, *Session]
	sweep time.Duration
	log   *slog.Logger
}

// NewStore creates a store from cfg. Non-positive sizes fall back to the
// defaults.
func NewStore(cfg StoreConfig, log *slog.Logger) *Store {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1024
	}
	if cfg.TTL < 0 {
		cfg.TTL = 0
	}
	if log == nil {
		log = logger.Discard()
	}
	s := &Store{
		forms: cache.New[string, *Session](cfg.Capacity, cfg.TTL),
		sweep: cfg.SweepInterval,
		log:   log.With(logger.Component("form_store")),
	}
	s.forms.SetEvictCallback(func(id string, _ *Session, reason cache.Reason) {
		s.log.Debug("form dropped", logger.FormID(id), slog.String("reason", reason.String()))
	})
	return s
}

// Add stores sess under its form id.
func (s *Store) Add(sess *Session) {
	s.forms.Put(sess.Form.ID(), sess)
}

// Get returns the live form with id and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	return s.forms.Get(id)
}

// Remove drops the form with id.
func (s *Store) Remove(id string) {
	s.forms.Remove(id)
}

// Len reports the number of live forms.
func (s *Store) Len() int { return s.forms.Len() }

// Run prunes expired forms every sweep interval until ctx is done. It
// returns immediately when sweeping is disabled.
func (s *Store) Run(ctx context.Context) {
	if s.sweep <= 0 {
		return
	}
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.forms.Prune(); n > 0 {
				s.log.DebugContext(ctx, "expired forms pruned", slog.Int("count", n))
			}
		}
	}
}
