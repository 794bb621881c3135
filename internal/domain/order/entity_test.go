//go:build unit

package order_test

import (
	"strings"
	"testing"
	"time"

	"vendora/internal/domain/cart"
	"vendora/internal/domain/order"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
}

func mustLine(t *testing.T, quantity int32, unitPriceCents int64, name string) cart.Line {
	t.Helper()
	line, err := cart.NewLine(uuid.New(), quantity, unitPriceCents, name, nil, nil, nil)
	require.NoError(t, err)
	return line
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 50, 0, time.UTC)
	buyerID := uuid.New()

	t.Run("valid order", func(t *testing.T) {
		lines := []cart.Line{
			mustLine(t, 2, 1500, "Walnut Desk"),
			mustLine(t, 1, 4000, "Oak Chair"),
		}
		totals := order.Totals{
			SubtotalCents: 7000,
			ShippingCents: 500,
			TaxCents:      700,
			TotalCents:    8200,
		}

		o, err := order.NewOrder(buyerID, lines, totals, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID())
		assert.Equal(t, buyerID, o.BuyerID())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, order.VerificationPending, o.VerificationStatus())
		assert.Equal(t, now, o.CreatedAt())

		expected := []order.Line{
			{
				ProductID:       lines[0].ProductID(),
				ProductName:     "Walnut Desk",
				Quantity:        2,
				UnitPriceCents:  1500,
				TotalPriceCents: 3000,
			},
			{
				ProductID:       lines[1].ProductID(),
				ProductName:     "Oak Chair",
				Quantity:        1,
				UnitPriceCents:  4000,
				TotalPriceCents: 4000,
			},
		}
		if diff := cmp.Diff(expected, o.Lines(), cmpOpts...); diff != "" {
			t.Errorf("Lines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("validation failures", func(t *testing.T) {
		validLines := []cart.Line{mustLine(t, 1, 1000, "Walnut Desk")}
		cases := []struct {
			name   string
			lines  []cart.Line
			totals order.Totals
			errIs  error
		}{
			{
				name:   "no lines",
				lines:  nil,
				totals: order.Totals{},
				errIs:  order.ErrNoLines,
			},
			{
				name:   "subtotal mismatch",
				lines:  validLines,
				totals: order.Totals{SubtotalCents: 999, TotalCents: 999},
				errIs:  order.ErrSubtotalMismatch,
			},
			{
				name:   "total mismatch",
				lines:  validLines,
				totals: order.Totals{SubtotalCents: 1000, ShippingCents: 500, TotalCents: 1000},
				errIs:  order.ErrTotalMismatch,
			},
			{
				name:   "negative shipping",
				lines:  validLines,
				totals: order.Totals{SubtotalCents: 1000, ShippingCents: -1, TotalCents: 999},
				errIs:  order.ErrNegativeAmount,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := order.NewOrder(buyerID, tc.lines, tc.totals, now)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("lines are copied out", func(t *testing.T) {
		lines := []cart.Line{mustLine(t, 1, 1000, "Walnut Desk")}
		totals := order.Totals{SubtotalCents: 1000, TotalCents: 1000}

		o, err := order.NewOrder(buyerID, lines, totals, now)
		require.NoError(t, err)

		got := o.Lines()
		got[0].ProductName = "mutated"
		assert.Equal(t, "Walnut Desk", o.Lines()[0].ProductName)
	})
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 50, 0, time.UTC)

	number := order.NewOrderNumber(now)
	assert.True(t, strings.HasPrefix(number, "ORD-20260829-153050-"), number)
	assert.Len(t, number, len("ORD-20060102-150405-XXXX"))

	// The random suffix makes consecutive numbers from the same instant
	// almost certainly distinct.
	other := order.NewOrderNumber(now)
	assert.Equal(t, number[:len(number)-4], other[:len(other)-4])
}
