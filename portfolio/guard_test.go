package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanBuy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		balance   float64
		unitPrice float64
		qty       float64
		want      bool
	}{
		{"covers with room", 1000, 50, 2, true},
		{"exactly zeroes balance", 100, 50, 2, false},
		{"insufficient", 99, 50, 2, false},
		{"zero balance", 0, 1, 1, false},
		{"negative balance", -10, 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanBuy(tt.balance, tt.unitPrice, tt.qty))
		})
	}
}

func TestCanSell(t *testing.T) {
	t.Parallel()

	pos := Position{AssetID: "bitcoin", Quantity: 2}

	assert.True(t, CanSell(pos, 1))
	assert.True(t, CanSell(pos, 2))
	assert.False(t, CanSell(pos, 3))
}
