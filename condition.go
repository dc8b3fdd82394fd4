package validate

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ErrInvalidCondition is raised at registration time when a conditional
// block's condition cannot be compiled.
var ErrInvalidCondition = errors.New("invalid condition")

// FieldLookup reads the current value of a record field. The second
// return is false when the record has no such field; conditions and rules
// then see the missing sentinel (nil) instead of failing the pass.
type FieldLookup func(field string) (any, bool)

// condition is the guard of a ConditionalBlock, evaluated against the
// record's live field values on every validation pass.
type condition interface {
	eval(lookup FieldLookup, env map[string]any) (bool, error)
}

// Condition matches field values by equality. All entries must match for
// the condition to hold; an empty Condition is vacuously true.
type Condition map[string]any

func (c Condition) eval(lookup FieldLookup, _ map[string]any) (bool, error) {
	for field, expected := range c {
		value, _ := lookup(field)
		if !looseEqual(value, expected) {
			return false, nil
		}
	}
	return true, nil
}

// exprCondition guards a block with a compiled boolean expression run
// against the full field snapshot.
type exprCondition struct {
	src  string
	prog *vm.Program
}

func compileExprCondition(src string) (*exprCondition, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidCondition)
	}
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w: compile %q: %v", ErrInvalidCondition, src, err)
	}
	return &exprCondition{src: src, prog: prog}, nil
}

func (c *exprCondition) eval(_ FieldLookup, env map[string]any) (bool, error) {
	out, err := expr.Run(c.prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", c.src, err)
	}
	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q did not return bool", c.src)
	}
	return matched, nil
}

// ConditionalBlock pairs a condition with the then/else rule sets it
// selects between. Blocks are immutable after registration and are
// applied in registration order.
type ConditionalBlock struct {
	cond condition
	then RuleSet
	els  RuleSet
}
