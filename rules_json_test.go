package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSetFromJSON(t *testing.T) {
	doc := []byte(`{
		"age":   ["required", "integer"],
		"zip":   [["lengthBetween", 4, 4]],
		"email": [{"rule": "email", "message": "that is not an email"}]
	}`)

	rs, err := RuleSetFromJSON(doc)
	require.NoError(t, err)

	assert.Equal(t, []RuleSpec{{Name: "required"}, {Name: "integer"}}, rs["age"])
	// JSON numbers decode as float64.
	assert.Equal(t, []RuleSpec{{Name: "lengthBetween", Args: []any{4.0, 4.0}}}, rs["zip"])
	assert.Equal(t, []RuleSpec{{Name: "email", Message: "that is not an email"}}, rs["email"])
}

func TestRuleSetFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", `{"age": [`},
		{"not_an_object", `["required"]`},
		{"empty_rule_list", `{"age": []}`},
		{"empty_spec", `{"age": [[]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RuleSetFromJSON([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidRuleFormat)
		})
	}
}

func TestLoadJSON(t *testing.T) {
	doc := []byte(`{
		"rules": {"age": ["integer"]},
		"if": [
			{"condition": {"country": "US"},
			 "then": {"zip": ["required"]},
			 "else": {"zip": [["lengthBetween", 4, 4]]}},
			{"expr": "age >= 65",
			 "then": {"discount_code": ["required"]}}
		]
	}`)

	us := NewModel(map[string]any{"country": "US", "age": 70, "zip": ""})
	v := New(us)
	require.NoError(t, v.LoadJSON(doc))

	errs, err := us.Validate()
	require.NoError(t, err)
	assert.Equal(t, Errors{
		"zip":           "zip is required",
		"discount_code": "discount_code is required",
	}, errs)

	fr := NewModel(map[string]any{"country": "FR", "age": 30, "zip": "12"})
	require.NoError(t, New(fr).LoadJSON(doc))

	errs, err = fr.Validate()
	require.NoError(t, err)
	assert.Equal(t, Errors{"zip": "zip must be between 4 and 4 characters"}, errs)
}

func TestLoadJSONBlockWithoutGuardIsAlwaysActive(t *testing.T) {
	doc := []byte(`{"if": [{"then": {"name": ["required"]}}]}`)

	m := NewModel(nil)
	require.NoError(t, New(m).LoadJSON(doc))

	errs, err := m.Validate()
	require.NoError(t, err)
	assert.Equal(t, Errors{"name": "name is required"}, errs)
}

func TestLoadJSONAppendsToExistingRules(t *testing.T) {
	m := NewModel(map[string]any{"name": ""})
	v := New(m).Rule("name", "required")
	require.NoError(t, v.LoadJSON([]byte(`{"rules": {"name": [["lengthMin", 3]]}}`)))

	effective, err := v.effectiveRules(m)
	require.NoError(t, err)
	assert.Equal(t, []RuleSpec{Spec("required"), Spec("lengthMin", 3.0)}, effective["name"])
}

func TestLoadJSONErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{"malformed", `{`, ErrInvalidRuleFormat},
		{"not_an_object", `[]`, ErrInvalidRuleFormat},
		{"if_not_array", `{"if": {}}`, ErrInvalidRuleFormat},
		{"block_missing_then", `{"if": [{"condition": {"a": 1}}]}`, ErrInvalidRuleFormat},
		{"block_two_guards", `{"if": [{"condition": {}, "expr": "true", "then": {"f": ["required"]}}]}`, ErrInvalidCondition},
		{"condition_not_object", `{"if": [{"condition": "US", "then": {"f": ["required"]}}]}`, ErrInvalidCondition},
		{"bad_expr", `{"if": [{"expr": "country ==", "then": {"f": ["required"]}}]}`, ErrInvalidCondition},
		{"bad_rules", `{"rules": {"f": [42]}}`, ErrInvalidRuleFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(NewModel(nil)).LoadJSON([]byte(tt.doc))
			require.ErrorIs(t, err, tt.target)
		})
	}
}
