package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeField(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []RuleSpec
	}{
		{
			"bare_name",
			"required",
			[]RuleSpec{{Name: "required"}},
		},
		{
			"name_with_args",
			[]any{[]any{"lengthBetween", 4, 4}},
			[]RuleSpec{{Name: "lengthBetween", Args: []any{4, 4}}},
		},
		{
			"mixed_list",
			[]any{"required", []any{"lengthMin", 3}},
			[]RuleSpec{{Name: "required"}, {Name: "lengthMin", Args: []any{3}}},
		},
		{
			"string_list",
			[]string{"required", "integer"},
			[]RuleSpec{{Name: "required"}, {Name: "integer"}},
		},
		{
			"map_form",
			map[string]any{"rule": "email", "message": "bad email", "label": "E-mail"},
			[]RuleSpec{{Name: "email", Message: "bad email", Named: map[string]any{"label": "E-mail"}}},
		},
		{
			"spec_passthrough",
			Spec("min", 18),
			[]RuleSpec{{Name: "min", Args: []any{18}}},
		},
		{
			"spec_list",
			[]RuleSpec{Spec("required"), Spec("max", 10)},
			[]RuleSpec{{Name: "required"}, {Name: "max", Args: []any{10}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeField(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"empty_spec", []any{[]any{}}},
		{"empty_name", ""},
		{"empty_list", []any{}},
		{"nil", nil},
		{"non_string_name", []any{[]any{42, "x"}}},
		{"number", 7},
		{"map_without_name", map[string]any{"message": "oops"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeField(tt.input)
			require.ErrorIs(t, err, ErrInvalidRuleFormat)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := map[string]any{
		"age": []any{"required", []any{"min", 18}},
		"zip": []any{[]any{"lengthBetween", 4, 4}},
	}

	once, err := Normalize(input)
	require.NoError(t, err)

	twice, err := Normalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	thrice, err := Normalize(twice)
	require.NoError(t, err)
	assert.Equal(t, once, thrice)
}

func TestNormalizeBadField(t *testing.T) {
	_, err := Normalize(map[string]any{"zip": []any{}})
	require.ErrorIs(t, err, ErrInvalidRuleFormat)
	assert.Contains(t, err.Error(), `"zip"`)

	_, err = Normalize("just a string")
	require.ErrorIs(t, err, ErrInvalidRuleFormat)
}

func TestRuleSetAddAppends(t *testing.T) {
	rs := RuleSet{}
	rs.Add("f", Spec("required"))
	rs.Add("f", Spec("lengthMin", 3))

	// Same result as one Add with both specs: concatenation, not overwrite.
	want := RuleSet{}
	want.Add("f", Spec("required"), Spec("lengthMin", 3))
	assert.Equal(t, want, rs)
}

func TestRuleSetCloneIsDeep(t *testing.T) {
	orig := RuleSet{"f": {Spec("in", "a", "b")}}
	clone := orig.Clone()

	clone.Add("f", Spec("required"))
	clone["f"][0].Args[0] = "mutated"

	assert.Len(t, orig["f"], 1)
	assert.Equal(t, "a", orig["f"][0].Args[0])
}

func TestRuleSetMergeConcat(t *testing.T) {
	dst := RuleSet{"f": {Spec("required")}}
	src := RuleSet{
		"f": {Spec("lengthMin", 3)},
		"g": {Spec("integer")},
	}
	dst.mergeConcat(src)

	assert.Equal(t, []RuleSpec{Spec("required"), Spec("lengthMin", 3)}, dst["f"])
	assert.Equal(t, []RuleSpec{Spec("integer")}, dst["g"])
	// Source retains its own lists.
	assert.Len(t, src["f"], 1)
}

func TestSpecWithHelpers(t *testing.T) {
	base := Spec("lengthBetween", 4, 4)
	custom := base.WithMessage("zip looks wrong").WithNamed(NamedLabel, "ZIP code")

	assert.Empty(t, base.Message)
	assert.Nil(t, base.Named)
	assert.Equal(t, "zip looks wrong", custom.Message)
	assert.Equal(t, "ZIP code", custom.Named[NamedLabel])
}
