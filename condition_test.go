package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]any) FieldLookup {
	return func(field string) (any, bool) {
		v, ok := values[field]
		return v, ok
	}
}

func TestConditionEval(t *testing.T) {
	snapshot := map[string]any{"country": "US", "age": 30}
	lookup := lookupFrom(snapshot)

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"empty_is_true", Condition{}, true},
		{"single_match", Condition{"country": "US"}, true},
		{"single_miss", Condition{"country": "FR"}, false},
		{"conjunction_all_match", Condition{"country": "US", "age": 30}, true},
		{"conjunction_one_miss", Condition{"country": "US", "age": 31}, false},
		{"numeric_coercion", Condition{"age": 30.0}, true},
		{"missing_field_reads_nil", Condition{"state": "CA"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cond.eval(lookup, snapshot)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExprCondition(t *testing.T) {
	snapshot := map[string]any{"country": "US", "age": 30}

	cond, err := compileExprCondition(`country == "US" && age >= 18`)
	require.NoError(t, err)

	matched, err := cond.eval(nil, snapshot)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = cond.eval(nil, map[string]any{"country": "FR", "age": 30})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExprConditionUndefinedVariable(t *testing.T) {
	cond, err := compileExprCondition(`country == "US"`)
	require.NoError(t, err)

	// Absent fields compare as nil rather than failing the compile.
	matched, err := cond.eval(nil, map[string]any{})
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestExprConditionCompileError(t *testing.T) {
	_, err := compileExprCondition(`country ==`)
	require.ErrorIs(t, err, ErrInvalidCondition)

	_, err = compileExprCondition("")
	require.ErrorIs(t, err, ErrInvalidCondition)
}
