package validate

import (
	"errors"
	"fmt"
)

// ErrInvalidRuleFormat is raised when an input cannot be interpreted as a
// rule name plus arguments. It surfaces at registration time, before any
// validation pass runs.
var ErrInvalidRuleFormat = errors.New("invalid rule format")

// RuleSpec is one normalized validation rule: a rule name, its positional
// arguments, optional named arguments, and an optional message that
// replaces the engine's generated one.
type RuleSpec struct {
	Name    string
	Args    []any
	Named   map[string]any
	Message string
}

// Spec builds a RuleSpec from a rule name and positional arguments.
func Spec(name string, args ...any) RuleSpec {
	return RuleSpec{Name: name, Args: args}
}

// WithMessage returns a copy of the spec with a custom failure message.
func (s RuleSpec) WithMessage(msg string) RuleSpec {
	s.Message = msg
	return s
}

// WithNamed returns a copy of the spec with one named argument set.
func (s RuleSpec) WithNamed(key string, value any) RuleSpec {
	named := make(map[string]any, len(s.Named)+1)
	for k, v := range s.Named {
		named[k] = v
	}
	named[key] = value
	s.Named = named
	return s
}

func (s RuleSpec) clone() RuleSpec {
	out := RuleSpec{Name: s.Name, Message: s.Message}
	if s.Args != nil {
		out.Args = append([]any(nil), s.Args...)
	}
	if s.Named != nil {
		out.Named = make(map[string]any, len(s.Named))
		for k, v := range s.Named {
			out.Named[k] = v
		}
	}
	return out
}

// RuleSet maps a field name to its ordered rule list. Rule order is
// preserved as supplied; rules may be order-sensitive in the engine
// (required before type checks).
type RuleSet map[string][]RuleSpec

// Add appends specs to the field's existing rule list, creating the entry
// if absent. Appending, never replacing, is what makes repeated
// registration for the same field accumulate.
func (rs RuleSet) Add(field string, specs ...RuleSpec) {
	rs[field] = append(rs[field], specs...)
}

// Clone returns a deep copy; mutating the copy never affects the
// original's rule lists or their arguments.
func (rs RuleSet) Clone() RuleSet {
	out := make(RuleSet, len(rs))
	for field, specs := range rs {
		list := make([]RuleSpec, 0, len(specs))
		for _, spec := range specs {
			list = append(list, spec.clone())
		}
		out[field] = list
	}
	return out
}

// mergeConcat concatenates other's rule lists onto rs, field by field.
// This is list-concatenation merge, not overwrite: rules from other land
// after any rules rs already holds for the same field, and duplicates
// are kept.
func (rs RuleSet) mergeConcat(other RuleSet) {
	for field, specs := range other {
		for _, spec := range specs {
			rs[field] = append(rs[field], spec.clone())
		}
	}
}

// normalizeSpec interprets one loose rule entry as a RuleSpec. Accepted
// forms:
//   - "required"                                   bare rule name
//   - []any{"lengthBetween", 4, 4}                 name plus positional args
//   - map[string]any{"rule": "email", "message": …} map form; extra keys
//     become named arguments
//   - RuleSpec                                     passed through
func normalizeSpec(input any) (RuleSpec, error) {
	switch v := input.(type) {
	case RuleSpec:
		if v.Name == "" {
			return RuleSpec{}, fmt.Errorf("%w: empty rule name", ErrInvalidRuleFormat)
		}
		return v.clone(), nil

	case string:
		if v == "" {
			return RuleSpec{}, fmt.Errorf("%w: empty rule name", ErrInvalidRuleFormat)
		}
		return RuleSpec{Name: v}, nil

	case []any:
		if len(v) == 0 {
			return RuleSpec{}, fmt.Errorf("%w: empty rule specification", ErrInvalidRuleFormat)
		}
		name, ok := v[0].(string)
		if !ok || name == "" {
			return RuleSpec{}, fmt.Errorf("%w: rule name must be a non-empty string, got %T", ErrInvalidRuleFormat, v[0])
		}
		spec := RuleSpec{Name: name}
		if len(v) > 1 {
			spec.Args = append([]any(nil), v[1:]...)
		}
		return spec, nil

	case map[string]any:
		spec := RuleSpec{}
		for key, val := range v {
			switch key {
			case specKeyRule, specKeyName:
				name, ok := val.(string)
				if !ok || name == "" {
					return RuleSpec{}, fmt.Errorf("%w: rule name must be a non-empty string, got %T", ErrInvalidRuleFormat, val)
				}
				spec.Name = name
			case specKeyArgs:
				args, ok := val.([]any)
				if !ok {
					return RuleSpec{}, fmt.Errorf("%w: args must be a list, got %T", ErrInvalidRuleFormat, val)
				}
				spec.Args = append([]any(nil), args...)
			case specKeyMessage:
				msg, ok := val.(string)
				if !ok {
					return RuleSpec{}, fmt.Errorf("%w: message must be a string, got %T", ErrInvalidRuleFormat, val)
				}
				spec.Message = msg
			default:
				if spec.Named == nil {
					spec.Named = make(map[string]any)
				}
				spec.Named[key] = val
			}
		}
		if spec.Name == "" {
			return RuleSpec{}, fmt.Errorf("%w: missing rule name", ErrInvalidRuleFormat)
		}
		return spec, nil
	}

	return RuleSpec{}, fmt.Errorf("%w: cannot interpret %T as a rule", ErrInvalidRuleFormat, input)
}

// NormalizeField normalizes the rules for a single field into an ordered
// RuleSpec list. Input is either one rule entry in any normalizeSpec form,
// or a list whose elements each are one such entry. Note the nesting: a
// field's []any is a list of rules, so a rule with arguments inside it
// must itself be a []any ("zip": []any{[]any{"lengthBetween", 4, 4}}).
func NormalizeField(input any) ([]RuleSpec, error) {
	switch v := input.(type) {
	case []RuleSpec:
		out := make([]RuleSpec, 0, len(v))
		for _, spec := range v {
			norm, err := normalizeSpec(spec)
			if err != nil {
				return nil, err
			}
			out = append(out, norm)
		}
		return out, nil

	case []string:
		out := make([]RuleSpec, 0, len(v))
		for _, name := range v {
			norm, err := normalizeSpec(name)
			if err != nil {
				return nil, err
			}
			out = append(out, norm)
		}
		return out, nil

	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty rule list", ErrInvalidRuleFormat)
		}
		out := make([]RuleSpec, 0, len(v))
		for _, entry := range v {
			norm, err := normalizeSpec(entry)
			if err != nil {
				return nil, err
			}
			out = append(out, norm)
		}
		return out, nil
	}

	norm, err := normalizeSpec(input)
	if err != nil {
		return nil, err
	}
	return []RuleSpec{norm}, nil
}

// Normalize converts a loose field-to-rules mapping into canonical RuleSet
// form. Idempotent: normalizing an already-normalized RuleSet yields an
// equal RuleSet.
func Normalize(input any) (RuleSet, error) {
	switch v := input.(type) {
	case nil:
		return RuleSet{}, nil

	case RuleSet:
		return v.Clone(), nil

	case map[string][]RuleSpec:
		return RuleSet(v).Clone(), nil

	case map[string]any:
		out := make(RuleSet, len(v))
		for field, rules := range v {
			specs, err := NormalizeField(rules)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field, err)
			}
			out[field] = specs
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: cannot interpret %T as a rule set", ErrInvalidRuleFormat, input)
}
