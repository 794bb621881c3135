//go:build unit

package cart_test

import (
	"testing"

	"vendora/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLine(t *testing.T, quantity int32, unitPriceCents int64) cart.Line {
	t.Helper()
	line, err := cart.NewLine(uuid.New(), quantity, unitPriceCents, "Walnut Desk", nil, nil, nil)
	require.NoError(t, err)
	return line
}

func TestNewLine(t *testing.T) {
	cases := []struct {
		name           string
		quantity       int32
		unitPriceCents int64
		displayName    string
		errIs          error
	}{
		{
			name:           "valid line",
			quantity:       2,
			unitPriceCents: 1500,
			displayName:    "Walnut Desk",
		},
		{
			name:           "free item is valid",
			quantity:       1,
			unitPriceCents: 0,
			displayName:    "Sticker",
		},
		{
			name:           "zero quantity",
			quantity:       0,
			unitPriceCents: 1500,
			displayName:    "Walnut Desk",
			errIs:          cart.ErrInvalidQuantity,
		},
		{
			name:           "negative quantity",
			quantity:       -1,
			unitPriceCents: 1500,
			displayName:    "Walnut Desk",
			errIs:          cart.ErrInvalidQuantity,
		},
		{
			name:           "negative unit price",
			quantity:       1,
			unitPriceCents: -1,
			displayName:    "Walnut Desk",
			errIs:          cart.ErrInvalidUnitPrice,
		},
		{
			name:           "missing display name",
			quantity:       1,
			unitPriceCents: 1500,
			displayName:    "",
			errIs:          cart.ErrMissingName,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line, err := cart.NewLine(uuid.New(), tc.quantity, tc.unitPriceCents, tc.displayName, nil, nil, nil)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.quantity, line.Quantity())
			assert.Equal(t, tc.unitPriceCents, line.UnitPriceCents())
		})
	}
}

func TestLineTotalCents(t *testing.T) {
	line := newLine(t, 3, 1999)
	assert.Equal(t, int64(5997), line.TotalCents())
}

func TestPriceDriftExceeded(t *testing.T) {
	cases := []struct {
		name           string
		snapshotPrice  int64
		livePrice      int64
		expectExceeded bool
	}{
		{
			name:           "no drift",
			snapshotPrice:  10000,
			livePrice:      10000,
			expectExceeded: false,
		},
		{
			name:           "exactly at tolerance upward",
			snapshotPrice:  10000,
			livePrice:      11000,
			expectExceeded: false,
		},
		{
			name:           "exactly at tolerance downward",
			snapshotPrice:  10000,
			livePrice:      9000,
			expectExceeded: false,
		},
		{
			name:           "just over tolerance",
			snapshotPrice:  10000,
			livePrice:      11001,
			expectExceeded: true,
		},
		{
			name:           "just under tolerance floor",
			snapshotPrice:  10000,
			livePrice:      8999,
			expectExceeded: true,
		},
		{
			name:           "free at snapshot, priced now",
			snapshotPrice:  0,
			livePrice:      1,
			expectExceeded: true,
		},
		{
			name:           "free at snapshot, still free",
			snapshotPrice:  0,
			livePrice:      0,
			expectExceeded: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := newLine(t, 1, tc.snapshotPrice)
			assert.Equal(t, tc.expectExceeded, line.PriceDriftExceeded(tc.livePrice))
		})
	}
}
