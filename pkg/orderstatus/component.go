package orderstatus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

// Props carries what the owner hands to the component.
type Props struct {
	Data          FormData
	OnFieldChange ChangeFunc
}

type Option func(*Component)

// WithLogger attaches a logger used for lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Component) {
		c.logger = logger
	}
}

// Component is one mounted instance of the order status form.
type Component struct {
	props  Props
	loader *dropdowns.Loader
	logger zerolog.Logger

	mu         sync.RWMutex
	status     Status
	options    dropdowns.Set
	origin     dropdowns.Origin
	mounted    bool
	loading    bool
	generation uint64
	done       chan struct{}
}

// New constructs an unmounted component. A nil loader uses the default
// dropdowns.Loader, which falls back immediately without a sheet URL.
func New(props Props, loader *dropdowns.Loader, options ...Option) *Component {
	if loader == nil {
		loader = dropdowns.New()
	}
	c := &Component{
		props:  props,
		loader: loader,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Mount initialises the status mirror from the form data and starts the
// single dropdown fetch for this mount. Mounting an already mounted component
// is a no-op.
func (c *Component) Mount(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.generation++
	generation := c.generation
	c.status = c.initialStatus()
	c.options = dropdowns.Set{}
	c.origin = ""
	c.loading = true
	done := make(chan struct{})
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		result := c.loader.Load(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.mounted || c.generation != generation {
			c.logger.Debug().Msg("discarding dropdown options for unmounted form")
			return
		}
		c.options = result.Set
		c.origin = result.Origin
		c.loading = false
	}()
}

// Unmount detaches the component. An in-flight fetch is not cancelled; its
// result is discarded when it arrives.
func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
	c.loading = false
}

// Wait blocks until the fetch started by the current mount finishes.
func (c *Component) Wait(ctx context.Context) error {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsLoadingDropdowns reports whether the mount's fetch is still in flight.
func (c *Component) IsLoadingDropdowns() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Dropdowns returns the current option lists. They are empty until the first
// fetch of the mount completes.
func (c *Component) Dropdowns() (dropdowns.Set, dropdowns.Origin) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.options.Clone(), c.origin
}

// Status returns the local status mirror.
func (c *Component) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// SelectStatus handles a radio selection: the mirror is updated and the
// choice is forwarded to the owner.
func (c *Component) SelectStatus(status Status) error {
	switch status {
	case StatusYes, StatusNo, StatusHold:
	default:
		return fmt.Errorf("%w: %q is not selectable", ErrInvalidStatus, status)
	}

	c.mu.Lock()
	c.status = status
	c.mu.Unlock()

	c.emit(SetText(FieldOrderStatus, string(status)))
	return nil
}

// OnFieldChange forwards a text change verbatim. A change to the status field
// also moves the mirror when the value is a known status.
func (c *Component) OnFieldChange(field FieldName, value string) {
	if field == FieldOrderStatus {
		if status, err := ParseStatus(value); err == nil {
			c.mu.Lock()
			c.status = status
			c.mu.Unlock()
		}
	}
	c.emit(SetText(field, value))
}

// OnFileChange forwards the first selected file. An empty selection is a
// no-op.
func (c *Component) OnFileChange(field FieldName, files []FileHandle) {
	if len(files) == 0 {
		return
	}
	c.emit(SetFile(field, files[0]))
}

// Section returns the group gated by the current status.
func (c *Component) Section() (Section, bool) {
	c.mu.RLock()
	status := c.status
	set := c.options
	c.mu.RUnlock()
	return SectionFor(status, set)
}

// Value reads a field from the owner's form data.
func (c *Component) Value(field FieldName) (Value, bool) {
	if c.props.Data == nil {
		return Value{}, false
	}
	return c.props.Data.Get(field)
}

func (c *Component) emit(update Update) {
	if c.props.OnFieldChange == nil {
		return
	}
	c.props.OnFieldChange(update)
}

func (c *Component) initialStatus() Status {
	if c.props.Data == nil {
		return StatusUnset
	}
	value, ok := c.props.Data.Get(FieldOrderStatus)
	if !ok {
		return StatusUnset
	}
	status, err := ParseStatus(value.Text())
	if err != nil {
		c.logger.Debug().Str("value", value.Text()).Msg("ignoring unknown stored order status")
		return StatusUnset
	}
	return status
}
