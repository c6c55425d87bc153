package plugins

import (
	"context"
	"testing"

	"github.com/poiesic/launchpad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2+2", 4},
		{"10 - 4", 6},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"7 / 2", 3.5},
		{"-3 + 5", 2},
		{"2 * -3", -6},
		{"--4", 4},
		{".5 + .25", 0.75},
		{"42", 42},
		{"1 - 2 - 3", -4},
		{"8 / 4 / 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr error
	}{
		{"", ErrUnsupportedExpression},
		{"firefox 3", ErrUnsupportedExpression},
		{"2 +", ErrUnsupportedExpression},
		{"(1 + 2", ErrUnsupportedExpression},
		{"1.2.3", ErrUnsupportedExpression},
		{"4 / 0", ErrDivisionByZero},
		{"3 3", ErrUnsupportedExpression},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCalculator_CanHandle(t *testing.T) {
	calc := NewCalculator()

	assert.True(t, calc.CanHandle("2+2"))
	assert.True(t, calc.CanHandle("12"))
	assert.False(t, calc.CanHandle("code"))
	assert.False(t, calc.CanHandle("+-*/"))
}

func TestCalculator_Search(t *testing.T) {
	calc := NewCalculator()

	results, err := calc.Search(context.Background(), "2 + 3 * 4")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "2 + 3 * 4 = 14", r.Title)
	assert.Equal(t, "Mathematical calculation", r.Description)
	assert.Equal(t, 0.9, r.Score)
	assert.Equal(t, core.PluginCategory("Calculator"), r.Category)
	assert.Equal(t, core.CopyToClipboard{Text: "14"}, r.Action)
}

func TestCalculator_SearchUnparseableYieldsNothing(t *testing.T) {
	results, err := NewCalculator().Search(context.Background(), "firefox 3")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "4", FormatNumber(4))
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "-2.25", FormatNumber(-2.25))
}
