// Package validate attaches declarative validation rules to a record's
// lifecycle.
//
// A Validator is bound to a single Record at construction time and hooks
// itself into the record's validation lifecycle event. Rules are registered
// with chainable calls:
//   - Rule(): append rules for one field
//   - Rules(): append rules for several fields at once
//   - If() / IfExpr(): register conditional rule blocks whose then/else
//     rule sets are selected per validation pass from the record's
//     current field values
//   - LoadJSON(): load the same registrations from a JSON document
//
// At validation time the base rules and every conditional block are merged
// into one effective rule set (per-field list concatenation, registration
// order preserved, duplicates kept) and handed to an Engine together with a
// snapshot of the record's field values. The default engine executes named
// rules such as "required", "integer" or "email", delegating format checks
// to go-playground/validator.
//
// Validation failures come back as an Errors map holding one message per
// failing field; a nil map means the record passed. Engine defects (unknown
// rule names, malformed rule arguments, expression runtime errors) are
// returned as ordinary Go errors and are never folded into the Errors map.
//
// Rule registration is strict: inputs that cannot be normalized into rule
// specifications panic immediately with an error wrapping
// ErrInvalidRuleFormat, the same posture the underlying engine takes for
// registration misuse. Data-driven entry points (Normalize, NormalizeField,
// LoadJSON, RuleSetFromJSON) return errors instead.
//
// A Validator is registration state for one record and is not safe for
// concurrent use; once its first validation pass has started, further
// registration calls panic with ErrRegistrationSealed.
package validate
