package form

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/rules"
)

// EncTypeMultipart is reported by EncType once a file input is mounted.
const EncTypeMultipart = "multipart/form-data"

// RemoteValidator validates the whole form snapshot on the server side and
// returns messages keyed by attribute. Attributes absent from the result
// have no remote errors.
type RemoteValidator func(ctx context.Context, values Values) (map[string][]string, error)

// Listener receives a snapshot after every published model change. It may
// be called from several goroutines at once.
type Listener func(ctx context.Context, snap Snapshot)

// Scroller brings the first invalid field into view.
type Scroller interface {
	ScrollTo(ctx context.Context, ref any, offset int) error
}

type entry struct {
	record Record
	client []string
	remote []string
	seq    uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// Form owns the attribute model of one form instance.
type Form struct {
	id       string
	cfg      Config
	log      *slog.Logger
	clock    Clock
	registry *rules.Registry
	remote   RemoteValidator
	submit   SubmitFunc
	scroller Scroller
	obs      Observer
	coord    *Coordinator

	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	refs    map[string]any
	hasFile bool
	applied uint64

	subMu   sync.Mutex
	subs    []subscription
	nextSub uint64
}

// Option configures a Form.
type Option func(*Form)

func WithID(id string) Option {
	return func(f *Form) {
		if id != "" {
			f.id = id
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(f *Form) {
		if log != nil {
			f.log = log
		}
	}
}

// WithClock replaces the clock used for debouncing.
func WithClock(c Clock) Option {
	return func(f *Form) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithRegistry sets the validator registry. Defaults to rules.Builtins().
func WithRegistry(r *rules.Registry) Option {
	return func(f *Form) {
		if r != nil {
			f.registry = r
		}
	}
}

// WithRemoteValidator is required when EnableAjaxValidation is set.
func WithRemoteValidator(fn RemoteValidator) Option {
	return func(f *Form) { f.remote = fn }
}

func WithSubmitHandler(fn SubmitFunc) Option {
	return func(f *Form) { f.submit = fn }
}

func WithScroller(s Scroller) Option {
	return func(f *Form) { f.scroller = s }
}

func WithObserver(o Observer) Option {
	return func(f *Form) {
		if o != nil {
			f.obs = o
		}
	}
}

// New creates a form with an empty model.
func New(cfg Config, opts ...Option) (*Form, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	f := &Form{
		id:      uuid.NewString(),
		cfg:     cfg,
		log:     logger.Discard(),
		clock:   SystemClock(),
		obs:     NopObserver{},
		entries: make(map[string]*entry),
		refs:    make(map[string]any),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = rules.Builtins()
	}
	f.log = f.log.With(logger.Component("form"), logger.FormID(f.id))

	if cfg.EnableAjaxValidation {
		if f.remote == nil {
			return nil, fmt.Errorf("%w: ajax validation enabled without a remote validator", ErrInvalidConfig)
		}
		f.coord = NewCoordinator(f.runBatch, f.clock, f.log, f.obs)
	}

	return f, nil
}

func (f *Form) ID() string { return f.id }

// Config returns a copy of the form configuration.
func (f *Form) Config() Config { return f.cfg }

// Registry returns the validator registry rules are resolved against.
func (f *Form) Registry() *rules.Registry { return f.registry }

// Register mounts a field: it creates the attribute record with options
// resolved from overrides and applies patches. Mounting an existing
// attribute re-resolves its options and keeps its errors.
func (f *Form) Register(attribute string, overrides FieldOverrides, patches ...Patch) error {
	return f.merge(attribute, Merge(SetOptions(f.cfg.Resolve(overrides)), Merge(patches...)))
}

// UpdateAttribute merges patch into the attribute record, optionally runs a
// validation pass, publishes the model and scrolls to the first error.
// Unknown attributes are created with form-level options.
func (f *Form) UpdateAttribute(ctx context.Context, attribute string, patch Patch, validate bool) error {
	if err := f.merge(attribute, patch); err != nil {
		return err
	}

	if validate {
		if err := f.ValidateAttribute(ctx, attribute); err != nil {
			return err
		}
	}

	snap := f.publish(ctx)
	f.scrollToFirstError(ctx, snap)
	return nil
}

// SetValues replaces the values of known attributes and publishes the model
// once. It neither validates nor scrolls. Any unknown attribute fails the
// whole call before a value is written.
func (f *Form) SetValues(ctx context.Context, values Values) error {
	f.mu.Lock()
	for name := range values {
		if _, ok := f.entries[name]; !ok {
			f.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
	}
	for name, v := range values {
		f.entries[name].record.Value = v
	}
	f.mu.Unlock()

	f.publish(ctx)
	return nil
}

func (f *Form) merge(attribute string, patch Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[attribute]
	if !ok {
		e = &entry{record: Record{Options: f.cfg.Resolve(FieldOverrides{})}}
	}

	next := e.record.clone()
	if patch != nil {
		patch(&next)
	}
	for _, rule := range next.Rules {
		if _, err := f.resolve(rule); err != nil {
			return fmt.Errorf("attribute %q: %w", attribute, err)
		}
	}
	e.record = next

	if !ok {
		f.entries[attribute] = e
		f.order = append(f.order, attribute)
	}
	return nil
}

func (f *Form) resolve(rule Rule) (rules.Func, error) {
	if rule.Func != nil {
		return rule.Func, nil
	}
	return f.registry.Lookup(rule.Validator)
}

// Snapshot returns a deep copy of the model.
func (f *Form) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	snap := Snapshot{
		id:         f.id,
		attributes: slices.Clone(f.order),
		records:    make(map[string]Record, len(f.entries)),
	}
	if f.hasFile {
		snap.encType = EncTypeMultipart
	}
	for name, e := range f.entries {
		snap.records[name] = e.record.clone()
	}
	return snap
}

// Values returns the current value of every attribute.
func (f *Form) Values() Values {
	f.mu.RLock()
	defer f.mu.RUnlock()

	values := make(Values, len(f.entries))
	for name, e := range f.entries {
		values[name] = e.record.clone().Value
	}
	return values
}

// Record returns a copy of the attribute state.
func (f *Form) Record(attribute string) (Record, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.entries[attribute]
	if !ok {
		return Record{}, false
	}
	return e.record.clone(), true
}

// Subscribe registers fn for published snapshots. The returned func
// removes the subscription.
func (f *Form) Subscribe(fn Listener) (cancel func()) {
	f.subMu.Lock()
	defer f.subMu.Unlock()

	f.nextSub++
	id := f.nextSub
	f.subs = append(f.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			f.subMu.Lock()
			defer f.subMu.Unlock()
			f.subs = slices.DeleteFunc(f.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

func (f *Form) publish(ctx context.Context) Snapshot {
	snap := f.Snapshot()

	f.subMu.Lock()
	subs := slices.Clone(f.subs)
	f.subMu.Unlock()

	for _, s := range subs {
		s.fn(ctx, snap)
	}
	return snap
}

// RegisterFieldRef records the scroll target of an attribute. Only the
// first registration is kept; it reports whether ref was stored.
func (f *Form) RegisterFieldRef(attribute string, ref any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.refs[attribute]; ok {
		return false
	}
	f.refs[attribute] = ref
	return true
}

func (f *Form) scrollToFirstError(ctx context.Context, snap Snapshot) {
	if !f.cfg.ScrollToError || f.scroller == nil {
		return
	}
	attribute, ok := snap.FirstError()
	if !ok {
		return
	}

	f.mu.RLock()
	ref, ok := f.refs[attribute]
	f.mu.RUnlock()
	if !ok {
		return
	}

	if err := f.scroller.ScrollTo(ctx, ref, f.cfg.ScrollToErrorOffset); err != nil {
		f.log.WarnContext(ctx, "scroll to first error", logger.Attribute(attribute), logger.Error(err))
	}
}

// SetHasFile switches the form encoding to multipart.
func (f *Form) SetHasFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hasFile = true
}

// EncType returns EncTypeMultipart once a file input is mounted, "" before.
func (f *Form) EncType() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.hasFile {
		return EncTypeMultipart
	}
	return ""
}
