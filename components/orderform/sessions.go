package orderform

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

// session is one parent owner: the form data and the component mounted over
// it.
type session struct {
	id        string
	data      *orderstatus.Values
	component *orderstatus.Component

	mu            sync.Mutex
	missingFields []orderstatus.FieldName
}

func (s *session) setMissing(missing []orderstatus.FieldName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingFields = append([]orderstatus.FieldName(nil), missing...)
}

func (s *session) missing() []orderstatus.FieldName {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orderstatus.FieldName(nil), s.missingFields...)
}

// sessionStore keeps sessions in memory and unmounts a component when its
// session expires.
type sessionStore struct {
	backend *gocache.Cache
	ttl     time.Duration
	opts    Options
	logger  zerolog.Logger
}

func newSessionStore(opts Options) *sessionStore {
	backend := gocache.New(opts.SessionTTL, opts.SessionTTL)
	backend.OnEvicted(func(id string, value any) {
		if s, ok := value.(*session); ok {
			s.component.Unmount()
			opts.Logger.Debug().Str("session", id).Msg("order form session evicted")
		}
	})
	return &sessionStore{
		backend: backend,
		ttl:     opts.SessionTTL,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// get returns a live session and extends its lifetime.
func (st *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	raw, ok := st.backend.Get(id)
	if !ok {
		return nil, false
	}
	s, ok := raw.(*session)
	if !ok {
		return nil, false
	}
	st.backend.Set(id, s, st.ttl)
	return s, true
}

// create builds a new owner, mounts a component over it, and starts the
// dropdown load for that mount.
func (st *sessionStore) create(ctx context.Context) *session {
	id := uuid.NewString()
	data := orderstatus.NewValues(nil)
	onChange := st.opts.OnChange
	logger := st.logger.With().Str("session", id).Logger()

	s := &session{id: id, data: data}
	s.component = orderstatus.New(orderstatus.Props{
		Data: data,
		OnFieldChange: func(update orderstatus.Update) {
			data.Apply(update)
			logger.Debug().Str("field", update.Field.String()).Bool("file", update.Value.IsFile()).Msg("field changed")
			if onChange != nil {
				onChange(id, update)
			}
		},
	}, st.opts.Loader(), orderstatus.WithLogger(logger))

	// The load outlives the request that created the session.
	s.component.Mount(context.WithoutCancel(ctx))
	st.backend.Set(id, s, st.ttl)
	return s
}

func (st *sessionStore) delete(id string) {
	st.backend.Delete(id)
}

func (st *sessionStore) len() int {
	return st.backend.ItemCount()
}
