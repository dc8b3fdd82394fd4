package validate

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrRegistrationSealed is raised when rules are registered on a
// Validator whose first validation pass has already started.
var ErrRegistrationSealed = errors.New("rule registration after validation has started")

// Errors maps a failing field to its single validation message. It is the
// normal-path result of a validation pass, deliberately not an error
// value: a non-nil map is a recoverable data problem, while engine
// defects travel separately as Go errors.
type Errors map[string]string

// Validator accumulates the rule state for one record and runs its
// validation passes. Construct one per record with New; the validator's
// lifetime matches the record it is bound to.
//
// Registration methods are chainable and panic on malformed input (see
// the package doc). They are not safe to call concurrently with each
// other or with Validate.
type Validator struct {
	engine  Engine
	rules   RuleSet
	ifRules []ConditionalBlock
	sealed  atomic.Bool
}

// Option configures a Validator at construction.
type Option func(*Validator)

// WithEngine replaces the default engine for this validator.
func WithEngine(e Engine) Option {
	return func(v *Validator) {
		v.engine = e
	}
}

// New builds a Validator bound to rec. The validator hooks itself into
// the record's validation lifecycle event; if the record exposes a
// back-reference slot that is still unset, it is pointed at this
// validator. Binding happens exactly once, here.
func New(rec Record, opts ...Option) *Validator {
	v := &Validator{
		engine: DefaultEngine(),
		rules:  RuleSet{},
	}
	for _, opt := range opts {
		opt(v)
	}

	rec.OnValidate(v.Validate)
	if holder, ok := rec.(ValidatorHolder); ok && holder.BoundValidator() == nil {
		holder.BindValidator(v)
	}
	return v
}

// Rule appends rules for one field. Each argument is one rule entry: a
// bare name, a []any{name, args...}, a map form, or a RuleSpec.
//
//	v.Rule("age", "required", "integer").
//	  Rule("zip", []any{"lengthBetween", 4, 4})
func (v *Validator) Rule(field string, rules ...any) *Validator {
	v.mustBeOpen()
	if field == "" {
		panic(fmt.Errorf("%w: empty field name", ErrInvalidRuleFormat))
	}
	if len(rules) == 0 {
		panic(fmt.Errorf("%w: no rules given for field %q", ErrInvalidRuleFormat, field))
	}
	for _, rule := range rules {
		spec, err := normalizeSpec(rule)
		if err != nil {
			panic(fmt.Errorf("field %q: %w", field, err))
		}
		v.rules.Add(field, spec)
	}
	return v
}

// Rules appends rules for several fields at once. Values take any form
// NormalizeField accepts.
func (v *Validator) Rules(fields map[string]any) *Validator {
	v.mustBeOpen()
	normalized, err := Normalize(fields)
	if err != nil {
		panic(err)
	}
	v.rules.mergeConcat(normalized)
	return v
}

// If registers a conditional rule block. When every condition entry
// matches the record's field values at validation time, the then rules
// are merged into the effective set; otherwise the else rules (the
// optional trailing argument) are. An empty condition always matches.
func (v *Validator) If(cond Condition, then map[string]any, els ...map[string]any) *Validator {
	v.mustBeOpen()
	v.ifRules = append(v.ifRules, v.buildBlock(cond, then, els))
	return v
}

// IfExpr registers a conditional rule block guarded by a boolean
// expression over the record's field values, compiled once here.
//
//	v.IfExpr(`country == "US" && age >= 18`, map[string]any{"ssn": "required"})
func (v *Validator) IfExpr(src string, then map[string]any, els ...map[string]any) *Validator {
	v.mustBeOpen()
	cond, err := compileExprCondition(src)
	if err != nil {
		panic(err)
	}
	v.ifRules = append(v.ifRules, v.buildBlock(cond, then, els))
	return v
}

func (v *Validator) buildBlock(cond condition, then map[string]any, els []map[string]any) ConditionalBlock {
	if len(els) > 1 {
		panic(fmt.Errorf("%w: at most one else rule set", ErrInvalidRuleFormat))
	}

	thenRules, err := Normalize(then)
	if err != nil {
		panic(err)
	}
	elseRules := RuleSet{}
	if len(els) == 1 {
		if elseRules, err = Normalize(els[0]); err != nil {
			panic(err)
		}
	}
	return ConditionalBlock{cond: cond, then: thenRules, els: elseRules}
}

// Validate runs one validation pass against rec's current field values
// and is the handler New binds to the record's lifecycle event.
//
// The effective rule set is resolved from the base rules and the
// conditional blocks, then executed by the engine. On failure the
// engine's per-field messages are reduced to one message per field,
// keeping the last message produced (the most recently evaluated rule
// wins). A nil Errors result means the record passed. A non-nil error is
// an engine defect and carries no field messages.
func (v *Validator) Validate(rec Record) (Errors, error) {
	v.sealed.Store(true)

	snapshot := rec.Values()
	effective, err := resolveRules(v.rules, v.ifRules, rec.Get, snapshot)
	if err != nil {
		return nil, err
	}

	session := v.engine.Session(snapshot)
	session.MapFieldRules(effective)

	ok, err := session.Validate()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}

	out := make(Errors)
	for field, msgs := range session.Errors() {
		if len(msgs) == 0 {
			continue
		}
		out[field] = msgs[len(msgs)-1]
	}
	return out, nil
}

// effectiveRules exposes the resolved rule set for one pass without
// running the engine.
func (v *Validator) effectiveRules(rec Record) (RuleSet, error) {
	return resolveRules(v.rules, v.ifRules, rec.Get, rec.Values())
}

func (v *Validator) mustBeOpen() {
	if v.sealed.Load() {
		panic(ErrRegistrationSealed)
	}
}
