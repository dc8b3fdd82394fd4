package validate

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// RuleSetFromJSON reads a JSON object mapping field names to rule lists
// into canonical RuleSet form:
//
//	{
//	  "age":   ["integer"],
//	  "zip":   [["lengthBetween", 4, 4]],
//	  "email": [{"rule": "email", "message": "that is not an email"}]
//	}
func RuleSetFromJSON(data []byte) (RuleSet, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidRuleFormat)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: rule document must be a JSON object", ErrInvalidRuleFormat)
	}
	return Normalize(doc.Value())
}

// LoadJSON registers a whole rule document on the validator: base rules
// under "rules" and conditional blocks under "if", each block holding
// either a "condition" object or an "expr" string, a "then" rule set and
// an optional "else" rule set.
//
//	{
//	  "rules": {"age": ["integer"]},
//	  "if": [
//	    {"condition": {"country": "US"},
//	     "then": {"zip": ["required"]},
//	     "else": {"zip": [["lengthBetween", 4, 4]]}}
//	  ]
//	}
//
// Unlike the chainable registration calls, LoadJSON is fed external data
// and therefore returns its failures instead of panicking.
func (v *Validator) LoadJSON(data []byte) error {
	if v.sealed.Load() {
		return ErrRegistrationSealed
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidRuleFormat)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return fmt.Errorf("%w: rule document must be a JSON object", ErrInvalidRuleFormat)
	}

	if rules := doc.Get(docKeyRules); rules.Exists() {
		base, err := Normalize(rules.Value())
		if err != nil {
			return err
		}
		v.rules.mergeConcat(base)
	}

	blocks := doc.Get(docKeyIf)
	if !blocks.Exists() {
		return nil
	}
	if !blocks.IsArray() {
		return fmt.Errorf("%w: %q must be an array of blocks", ErrInvalidRuleFormat, docKeyIf)
	}

	var loadErr error
	blocks.ForEach(func(_, raw gjson.Result) bool {
		block, err := parseJSONBlock(raw)
		if err != nil {
			loadErr = err
			return false
		}
		v.ifRules = append(v.ifRules, block)
		return true
	})
	return loadErr
}

func parseJSONBlock(raw gjson.Result) (ConditionalBlock, error) {
	var block ConditionalBlock

	condRes := raw.Get(docKeyCondition)
	exprRes := raw.Get(docKeyExpr)
	switch {
	case condRes.Exists() && exprRes.Exists():
		return block, fmt.Errorf("%w: block has both %q and %q", ErrInvalidCondition, docKeyCondition, docKeyExpr)
	case condRes.Exists():
		fields, ok := condRes.Value().(map[string]any)
		if !ok {
			return block, fmt.Errorf("%w: %q must be an object", ErrInvalidCondition, docKeyCondition)
		}
		block.cond = Condition(fields)
	case exprRes.Exists():
		cond, err := compileExprCondition(exprRes.String())
		if err != nil {
			return block, err
		}
		block.cond = cond
	default:
		// No guard at all means the block is unconditionally active.
		block.cond = Condition{}
	}

	thenRes := raw.Get(docKeyThen)
	if !thenRes.Exists() {
		return block, fmt.Errorf("%w: block missing %q rules", ErrInvalidRuleFormat, docKeyThen)
	}
	then, err := Normalize(thenRes.Value())
	if err != nil {
		return block, err
	}
	block.then = then

	block.els = RuleSet{}
	if elseRes := raw.Get(docKeyElse); elseRes.Exists() {
		if block.els, err = Normalize(elseRes.Value()); err != nil {
			return block, err
		}
	}
	return block, nil
}
