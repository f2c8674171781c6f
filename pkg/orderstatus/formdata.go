package orderstatus

import "sync"

// FormData is the read side of the owner's form state.
type FormData interface {
	Get(field FieldName) (Value, bool)
}

// FormDataFunc adapts a lookup function into FormData.
type FormDataFunc func(field FieldName) (Value, bool)

func (fn FormDataFunc) Get(field FieldName) (Value, bool) {
	return fn(field)
}

// Values is an in-memory, concurrency-safe owner for form data. Apply only
// ever sets keys; nothing is deleted when the status changes.
type Values struct {
	mu     sync.RWMutex
	values map[FieldName]Value
}

// NewValues returns an owner seeded with initial values.
func NewValues(initial map[FieldName]Value) *Values {
	v := &Values{values: make(map[FieldName]Value, len(initial))}
	for field, value := range initial {
		v.values[field] = value
	}
	return v
}

// Get implements FormData.
func (v *Values) Get(field FieldName) (Value, bool) {
	if v == nil {
		return Value{}, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	value, ok := v.values[field]
	return value, ok
}

// Apply stores the update.
func (v *Values) Apply(update Update) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.values == nil {
		v.values = make(map[FieldName]Value)
	}
	v.values[update.Field] = update.Value
}

// Snapshot returns a copy of every stored value.
func (v *Values) Snapshot() map[FieldName]Value {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[FieldName]Value, len(v.values))
	for field, value := range v.values {
		out[field] = value
	}
	return out
}

// Len reports how many keys are set.
func (v *Values) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.values)
}
