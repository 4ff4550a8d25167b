package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"calculate 2 plus 3", "5"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 divided by 4", "2.5"},
		{"7 minus 10", "-3"},
		{"3 x 3", "9"},
		{"2 ^ 10", "1024"},
		{"2 ^ 3 ^ 2", "512"}, // right-associative
		{"-4 + 6", "2"},
		{"calculate 100 times 0.5", "50"},
	}
	for _, tt := range tests {
		got, err := Calculate(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestCalculateErrors(t *testing.T) {
	for _, expr := range []string{
		"calculate",
		"1 divided by 0",
		"2 +",
		"(2 + 3",
		"two plus two",
		"1 2 3",
	} {
		_, err := Calculate(expr)
		assert.Error(t, err, expr)
	}
}
