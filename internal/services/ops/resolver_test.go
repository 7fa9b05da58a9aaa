package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numberparty/numberparty/internal/model"
)

func TestSumRevealBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int
		numeric bool
		value   int
		text    string
	}{
		{"just below low threshold", 9, 10, false, 0, "sum is below 20"},
		{"exactly low threshold", 10, 10, true, 20, ""},
		{"mid range", 40, 60, true, 100, ""},
		{"exactly high threshold", 90, 90, true, 180, ""},
		{"just above high threshold", 91, 90, false, 0, "sum is above 180"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resolve(model.OpSum, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.numeric, result.Numeric)
			if tt.numeric {
				assert.Equal(t, tt.value, result.Value)
			} else {
				assert.Equal(t, tt.text, result.Text)
			}
		})
	}
}

func TestProductTailRevealsLastDigitOnly(t *testing.T) {
	tests := []struct {
		a, b int
		want int
	}{
		{7, 8, 6},    // 56
		{12, 12, 4},  // 144
		{10, 33, 0},  // 330
		{25, 4, 0},   // 100
		{99, 99, 1},  // 9801
	}

	for _, tt := range tests {
		result, err := Resolve(model.OpProductTail, tt.a, tt.b)
		require.NoError(t, err)
		assert.True(t, result.Numeric)
		assert.Equal(t, tt.want, result.Value)
	}
}

func TestRatioFloorsAndOrdersOperands(t *testing.T) {
	result, err := Resolve(model.OpRatio, 7, 100)
	require.NoError(t, err)
	assert.Equal(t, 14, result.Value)

	// Operand order must not matter
	swapped, err := Resolve(model.OpRatio, 100, 7)
	require.NoError(t, err)
	assert.Equal(t, result, swapped)
}

func TestRatioRejectsZeroOperand(t *testing.T) {
	_, err := Resolve(model.OpRatio, 0, 42)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)

	_, err = Resolve(model.OpRatio, 42, 0)
	assert.ErrorIs(t, err, model.ErrDivisionByZero)
}

func TestZeroCensusCountsExclusiveRange(t *testing.T) {
	tests := []struct {
		name string
		a, b int
		want int
	}{
		{"reference example", 44, 88, 4}, // 50, 60, 70, 80
		{"reversed operands", 88, 44, 4},
		{"adjacent numbers", 44, 45, 0},
		{"equal numbers", 44, 44, 0},
		{"bounds excluded", 50, 60, 0}, // neither 50 nor 60 counted, 51..59 have no zero
		{"spans hundreds", 99, 111, 11}, // 100..109 plus 110
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resolve(model.OpZeroCensus, tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Value)
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	for _, op := range model.AllOperations() {
		first, err1 := Resolve(op, 37, 81)
		second, err2 := Resolve(op, 37, 81)
		assert.Equal(t, err1, err2)
		assert.Equal(t, first, second)
	}
}

func TestResolveRejectsUnknownOperation(t *testing.T) {
	_, err := Resolve(model.Operation("%"), 1, 2)
	assert.ErrorIs(t, err, model.ErrInvalidOperation)
}

func TestResultDisplay(t *testing.T) {
	assert.Equal(t, "42", Result{Value: 42, Numeric: true}.Display())
	assert.Equal(t, "sum is below 20", Result{Text: "sum is below 20"}.Display())
}
