//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"vendora/internal/domain/order"
	"vendora/internal/domain/product"
	reqdto "vendora/internal/handler/dto/request"
	"vendora/internal/infra"
	"vendora/internal/infra/db"
	"vendora/internal/infra/events"
	"vendora/internal/pkg/clock"
	"vendora/internal/usecase/commands"
	"vendora/internal/usecase/queries"
	"vendora/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeState struct {
	snapshots map[uuid.UUID]*product.Snapshot
	readErrs  map[uuid.UUID]error

	createdOrders []*order.Order
	createErr     error

	decremented  map[uuid.UUID]int32
	decrementErr map[uuid.UUID]error

	// stock observed by the in-transaction re-read after a decrement conflict
	shortfallStock map[uuid.UUID]int32
}

func newFakeState() *fakeState {
	return &fakeState{
		snapshots:      make(map[uuid.UUID]*product.Snapshot),
		readErrs:       make(map[uuid.UUID]error),
		decremented:    make(map[uuid.UUID]int32),
		decrementErr:   make(map[uuid.UUID]error),
		shortfallStock: make(map[uuid.UUID]int32),
	}
}

func (f *fakeState) addProduct(name string, priceCents int64, stock int32) uuid.UUID {
	id := uuid.New()
	f.snapshots[id] = &product.Snapshot{
		ID:                 id,
		VendorID:           uuid.New(),
		Name:               name,
		PriceCents:         priceCents,
		StockQuantity:      stock,
		IsActive:           true,
		VerificationStatus: product.VerificationApproved,
	}
	return id
}

func (f *fakeState) ProductSnapshotByID(_ context.Context, id uuid.UUID) (*product.Snapshot, error) {
	if err, ok := f.readErrs[id]; ok {
		return nil, err
	}
	snap, ok := f.snapshots[id]
	if !ok {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return snap, nil
}

type fakeOrderRepo struct{ state *fakeState }

func (r *fakeOrderRepo) Create(_ context.Context, _ db.DBTX, o *order.Order) error {
	if r.state.createErr != nil {
		return r.state.createErr
	}
	r.state.createdOrders = append(r.state.createdOrders, o)
	return nil
}

type fakeProductRepo struct{ state *fakeState }

func (r *fakeProductRepo) SnapshotByID(ctx context.Context, _ db.DBTX, id uuid.UUID) (*product.Snapshot, error) {
	return r.state.ProductSnapshotByID(ctx, id)
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, _ db.DBTX, id uuid.UUID, quantity int32) error {
	if err, ok := r.state.decrementErr[id]; ok {
		if stock, hasStock := r.state.shortfallStock[id]; hasStock {
			r.state.snapshots[id].StockQuantity = stock
		}
		return err
	}
	r.state.decremented[id] += quantity
	if snap, ok := r.state.snapshots[id]; ok {
		snap.StockQuantity -= quantity
	}
	return nil
}

type fakeTx struct{ state *fakeState }

func (t *fakeTx) Orders() shared.OrderRepository     { return &fakeOrderRepo{state: t.state} }
func (t *fakeTx) Products() shared.ProductRepository { return &fakeProductRepo{state: t.state} }
func (t *fakeTx) DB() db.DBTX                        { return nil }

type fakeUoW struct{ state *fakeState }

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{state: u.state})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) Reads() shared.CommandReads { return u.state }

type fakeOrderQueries struct {
	view *queries.OrderView
	err  error
}

func (q *fakeOrderQueries) GetByIDSystem(_ context.Context, id uuid.UUID) (*queries.OrderView, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.view != nil {
		return q.view, nil
	}
	return &queries.OrderView{ID: id}, nil
}

func (q *fakeOrderQueries) GetForBuyer(ctx context.Context, _ uuid.UUID, id uuid.UUID) (*queries.OrderView, error) {
	return q.GetByIDSystem(ctx, id)
}

func (q *fakeOrderQueries) ListByBuyer(context.Context, uuid.UUID, int) ([]*queries.OrderListItem, error) {
	return nil, nil
}

type fakePublisher struct {
	published []any
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newCheckout(state *fakeState, publisher commands.OrderEventPublisher) commands.CheckoutCommands {
	return commands.NewCheckoutCommands(
		&fakeUoW{state: state},
		&fakeOrderQueries{},
		publisher,
		clock.NewMockClock(testNow),
		slog.New(slog.DiscardHandler),
	)
}

func lineFor(state *fakeState, id uuid.UUID, quantity int32) reqdto.CheckoutLine {
	snap := state.snapshots[id]
	return reqdto.CheckoutLine{
		ProductID:      id,
		Quantity:       quantity,
		UnitPriceCents: snap.PriceCents,
		DisplayName:    snap.Name,
	}
}

func requestFor(lines ...reqdto.CheckoutLine) reqdto.CheckoutRequest {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPriceCents * int64(l.Quantity)
	}
	return reqdto.CheckoutRequest{
		Lines:         lines,
		SubtotalCents: subtotal,
		TotalCents:    subtotal,
	}
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()

	t.Run("places order and decrements stock", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		chairID := state.addProduct("Oak Chair", 4000, 5)
		publisher := &fakePublisher{}
		uc := newCheckout(state, publisher)

		req := requestFor(lineFor(state, deskID, 2), lineFor(state, chairID, 1))
		result, err := uc.PlaceOrder(ctx, buyerID, req)
		require.NoError(t, err)
		require.NotNil(t, result.Order)

		require.Len(t, state.createdOrders, 1)
		created := state.createdOrders[0]
		assert.Equal(t, buyerID, created.BuyerID())
		assert.Equal(t, testNow, created.CreatedAt())
		assert.Equal(t, int64(34000), created.Totals().TotalCents)

		assert.Equal(t, int32(2), state.decremented[deskID])
		assert.Equal(t, int32(1), state.decremented[chairID])

		require.Len(t, publisher.published, 1)
		event, ok := publisher.published[0].(events.OrderCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, events.TypeOrderCreated, event.Type)
		assert.Equal(t, created.ID(), event.OrderID)
	})

	t.Run("empty cart", func(t *testing.T) {
		state := newFakeState()
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor())
		assert.ErrorIs(t, err, commands.ErrNoValidItems)
		assert.Empty(t, state.createdOrders)
	})

	t.Run("missing product", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		desk := lineFor(state, deskID, 1)
		delete(state.snapshots, deskID)
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(desk))

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{"Walnut Desk is no longer available"}, rejection.Reasons)
		assert.Empty(t, state.createdOrders)
	})

	t.Run("inactive product", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		state.snapshots[deskID].IsActive = false
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 1)))

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{"Walnut Desk is not available for purchase"}, rejection.Reasons)
	})

	t.Run("unapproved product", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		state.snapshots[deskID].VerificationStatus = product.VerificationPending
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 1)))

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{"Walnut Desk is not available for purchase"}, rejection.Reasons)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 2)
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 3)))

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{"Walnut Desk: only 2 available, requested 3"}, rejection.Reasons)
	})

	t.Run("price drift at the boundary", func(t *testing.T) {
		cases := []struct {
			name         string
			livePrice    int64
			expectReject bool
		}{
			{name: "drift of exactly ten percent is accepted", livePrice: 11000, expectReject: false},
			{name: "drift just over ten percent is rejected", livePrice: 11001, expectReject: true},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				state := newFakeState()
				deskID := state.addProduct("Walnut Desk", 10000, 10)
				desk := lineFor(state, deskID, 1)
				state.snapshots[deskID].PriceCents = tc.livePrice
				uc := newCheckout(state, &fakePublisher{})

				_, err := uc.PlaceOrder(ctx, buyerID, requestFor(desk))
				if !tc.expectReject {
					require.NoError(t, err)
					// The order keeps the cart price, not the live price.
					require.Len(t, state.createdOrders, 1)
					assert.Equal(t, int64(10000), state.createdOrders[0].Lines()[0].UnitPriceCents)
					return
				}

				var rejection *commands.CheckoutRejection
				require.ErrorAs(t, err, &rejection)
				assert.Equal(t, []string{"price of Walnut Desk has changed, please review your cart"}, rejection.Reasons)
			})
		}
	})

	t.Run("reasons accumulate in cart order", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 0)
		chairID := state.addProduct("Oak Chair", 4000, 10)
		state.snapshots[chairID].IsActive = false
		lampID := state.addProduct("Brass Lamp", 2500, 10)
		uc := newCheckout(state, &fakePublisher{})

		req := requestFor(
			lineFor(state, deskID, 1),
			lineFor(state, chairID, 1),
			lineFor(state, lampID, 1),
		)
		_, err := uc.PlaceOrder(ctx, buyerID, req)

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{
			"Walnut Desk: only 0 available, requested 1",
			"Oak Chair is not available for purchase",
		}, rejection.Reasons)
		// One bad line fails the whole attempt even though the lamp was fine.
		assert.Empty(t, state.createdOrders)
	})

	t.Run("invalid line shape", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		desk := lineFor(state, deskID, 1)
		desk.Quantity = 0
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(desk))
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("totals mismatch", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		req := requestFor(lineFor(state, deskID, 1))
		req.TotalCents += 1
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, req)
		assert.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("concurrent shortfall during commit", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 5)
		publisher := &fakePublisher{}
		uc := newCheckout(state, publisher)

		// Validation sees stock, but the conditional decrement loses the race.
		state.decrementErr[deskID] = infra.WrapRepoErr("insufficient stock", nil, infra.KindConflict)
		state.shortfallStock[deskID] = 1

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 5)))

		var rejection *commands.CheckoutRejection
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, []string{"Walnut Desk: only 1 available, requested 5"}, rejection.Reasons)
		assert.Empty(t, publisher.published)
	})

	t.Run("database failure during commit", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		state.createErr = infra.WrapRepoErr("insert failed", nil)
		uc := newCheckout(state, &fakePublisher{})

		_, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 1)))
		assert.ErrorIs(t, err, commands.ErrDatabaseOperationFailed)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		state := newFakeState()
		deskID := state.addProduct("Walnut Desk", 15000, 10)
		publisher := &fakePublisher{err: infra.WrapRepoErr("broker down", nil)}
		uc := newCheckout(state, publisher)

		result, err := uc.PlaceOrder(ctx, buyerID, requestFor(lineFor(state, deskID, 1)))
		require.NoError(t, err)
		assert.NotNil(t, result.Order)
		require.Len(t, state.createdOrders, 1)
	})
}
