package validate

import (
	"github.com/google/uuid"
)

// Hook is a validation lifecycle handler. It reads the record's current
// field values and returns per-field messages on failure, nil on success,
// or an error for engine defects.
type Hook func(rec Record) (Errors, error)

// Record is the host-side view of a data record this package validates.
// Any model type exposing field reads and a validation lifecycle event
// can bind a Validator.
type Record interface {
	// Get reads the current value of a field. The second return is false
	// when the record has no such field.
	Get(field string) (any, bool)

	// Values returns a snapshot of all current field values.
	Values() map[string]any

	// OnValidate registers a handler fired when the record's validation
	// lifecycle event triggers.
	OnValidate(hook Hook)
}

// ValidatorHolder is an optional back-reference slot a Record may expose
// so callers can discover its bound validator. The reference is
// non-owning; the validator neither outlives nor controls the record.
type ValidatorHolder interface {
	BoundValidator() *Validator
	BindValidator(v *Validator)
}

///////////////////////////////////////////////////////////////////////////////
// Map-backed Model
///////////////////////////////////////////////////////////////////////////////

// Model is a minimal map-backed Record with a validation lifecycle. It is
// the reference host for this package; real applications typically adapt
// their own model type to the Record interface instead.
type Model struct {
	id     string
	fields map[string]any
	hooks  []Hook
	bound  *Validator
}

// NewModel builds a Model seeded with the given field values. Each model
// gets a fresh UUID identity.
func NewModel(fields map[string]any) *Model {
	m := &Model{
		id:     uuid.NewString(),
		fields: make(map[string]any, len(fields)),
	}
	for field, value := range fields {
		m.fields[field] = value
	}
	return m
}

// ID returns the model's identity.
func (m *Model) ID() string {
	return m.id
}

// Set writes one field value. Chainable.
func (m *Model) Set(field string, value any) *Model {
	m.fields[field] = value
	return m
}

// Unset removes a field, so subsequent Get reports it missing.
func (m *Model) Unset(field string) *Model {
	delete(m.fields, field)
	return m
}

func (m *Model) Get(field string) (any, bool) {
	v, ok := m.fields[field]
	return v, ok
}

// Values returns a copy of the field map; mutating it does not touch the
// model.
func (m *Model) Values() map[string]any {
	out := make(map[string]any, len(m.fields))
	for field, value := range m.fields {
		out[field] = value
	}
	return out
}

func (m *Model) OnValidate(hook Hook) {
	m.hooks = append(m.hooks, hook)
}

func (m *Model) BoundValidator() *Validator {
	return m.bound
}

func (m *Model) BindValidator(v *Validator) {
	m.bound = v
}

// Validate fires the model's validation lifecycle: every registered hook
// runs in registration order and their field messages are merged, later
// hooks winning on a shared field. The first engine error aborts the
// event. A nil result means the model passed.
func (m *Model) Validate() (Errors, error) {
	var merged Errors
	for _, hook := range m.hooks {
		errs, err := hook(m)
		if err != nil {
			return nil, err
		}
		if len(errs) == 0 {
			continue
		}
		if merged == nil {
			merged = make(Errors, len(errs))
		}
		for field, msg := range errs {
			merged[field] = msg
		}
	}
	return merged, nil
}
