package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"vendora/internal/domain/cart"
	"vendora/internal/domain/order"
	reqdto "vendora/internal/handler/dto/request"
	"vendora/internal/infra"
	"vendora/internal/infra/events"
	"vendora/internal/pkg/clock"
	"vendora/internal/pkg/errs"
	"vendora/internal/usecase/queries"
	"vendora/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNoValidItems            = errs.New("no valid items to order")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// CheckoutRejection is the structured all-or-nothing failure of a checkout
// attempt: per-line diagnostics in cart order, no order created.
type CheckoutRejection struct {
	Reasons []string
}

func (e *CheckoutRejection) Error() string {
	return "checkout rejected: " + strings.Join(e.Reasons, "; ")
}

type CheckoutResult struct {
	Order *queries.OrderView
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

type CheckoutCommands interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error)
}

type checkoutUseCaseImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	publisher    OrderEventPublisher
	clock        clock.Clock
	logger       *slog.Logger
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	orderQueries queries.OrderQueries,
	publisher OrderEventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		uow:          uow,
		orderQueries: orderQueries,
		publisher:    publisher,
		clock:        clk,
		logger:       logger,
	}
}

// PlaceOrder validates every cart line against a fresh product snapshot, then
// creates the order and decrements stock in a single transaction. Validation
// is line-partial (every line gets a diagnostic) but the order itself is
// all-or-nothing: one bad line fails the whole attempt.
func (c *checkoutUseCaseImpl) PlaceOrder(
	ctx context.Context,
	buyerID uuid.UUID,
	req reqdto.CheckoutRequest,
) (*CheckoutResult, error) {
	lines, err := req.ToCartLines()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	valid, reasons := c.validateLines(ctx, lines)
	if len(reasons) > 0 {
		return nil, &CheckoutRejection{Reasons: reasons}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidItems
	}

	orderEntity, err := order.NewOrder(buyerID, valid, req.ToTotals(), c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	if err := c.commit(ctx, orderEntity, valid); err != nil {
		return nil, err
	}

	c.publishOrderCreated(ctx, orderEntity)

	view, err := c.orderQueries.GetByIDSystem(ctx, orderEntity.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CheckoutResult{Order: view}, nil
}

// validateLines reads a fresh snapshot per line, sequentially and in cart
// order so diagnostics are deterministic. Read failures degrade to "no longer
// available" for that line instead of aborting the attempt.
func (c *checkoutUseCaseImpl) validateLines(ctx context.Context, lines []cart.Line) ([]cart.Line, []string) {
	reads := c.uow.Reads()

	valid := make([]cart.Line, 0, len(lines))
	var reasons []string

	for _, line := range lines {
		snap, err := reads.ProductSnapshotByID(ctx, line.ProductID())
		if err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				c.logger.Warn("product snapshot read failed during checkout",
					"product_id", line.ProductID().String(),
					"error", err.Error())
			}
			reasons = append(reasons, fmt.Sprintf("%s is no longer available", line.DisplayName()))
			continue
		}

		if !snap.Purchasable() {
			reasons = append(reasons, fmt.Sprintf("%s is not available for purchase", snap.Name))
			continue
		}

		if !snap.HasStock(line.Quantity()) {
			reasons = append(reasons, fmt.Sprintf("%s: only %d available, requested %d",
				snap.Name, snap.StockQuantity, line.Quantity()))
			continue
		}

		// Within tolerance the cart-snapshotted price is trusted as-is; the
		// line is not re-priced at the live price.
		if line.PriceDriftExceeded(snap.PriceCents) {
			reasons = append(reasons, fmt.Sprintf("price of %s has changed, please review your cart", snap.Name))
			continue
		}

		valid = append(valid, line)
	}

	return valid, reasons
}

// commit inserts the order and conditionally decrements stock for every line
// inside one transaction. A concurrent checkout that drained stock after
// validation rolls the whole attempt back as a rejection.
func (c *checkoutUseCaseImpl) commit(ctx context.Context, o *order.Order, lines []cart.Line) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Orders().Create(ctx, tx.DB(), o); err != nil {
			return err
		}

		for _, line := range lines {
			err := tx.Products().DecrementStock(ctx, tx.DB(), line.ProductID(), line.Quantity())
			if err == nil {
				continue
			}
			if infra.IsKind(err, infra.KindConflict) {
				return &CheckoutRejection{Reasons: []string{c.shortfallReason(ctx, tx, line)}}
			}
			return err
		}

		return nil
	})
	if err != nil {
		var rejection *CheckoutRejection
		if errors.As(err, &rejection) {
			return rejection
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// shortfallReason re-reads the live count so the rejection can name the exact
// shortfall; if even that read fails, fall back to a generic message.
func (c *checkoutUseCaseImpl) shortfallReason(ctx context.Context, tx shared.Tx, line cart.Line) string {
	snap, err := tx.Products().SnapshotByID(ctx, tx.DB(), line.ProductID())
	if err != nil {
		return fmt.Sprintf("%s: only %d available, requested %d", line.DisplayName(), 0, line.Quantity())
	}
	return fmt.Sprintf("%s: only %d available, requested %d", snap.Name, snap.StockQuantity, line.Quantity())
}

// publishOrderCreated is post-commit and best-effort: the order already
// stands, so publish failures are logged and swallowed.
func (c *checkoutUseCaseImpl) publishOrderCreated(ctx context.Context, o *order.Order) {
	if c.publisher == nil {
		return
	}

	vendorSet := make(map[uuid.UUID]struct{})
	var vendorIDs []uuid.UUID
	for _, l := range o.Lines() {
		if l.VendorID == nil {
			continue
		}
		if _, seen := vendorSet[*l.VendorID]; seen {
			continue
		}
		vendorSet[*l.VendorID] = struct{}{}
		vendorIDs = append(vendorIDs, *l.VendorID)
	}

	event := events.OrderCreatedEvent{
		Type:        events.TypeOrderCreated,
		OrderID:     o.ID(),
		BuyerID:     o.BuyerID(),
		OrderNumber: o.OrderNumber(),
		VendorIDs:   vendorIDs,
		TotalCents:  o.Totals().TotalCents,
		CreatedAt:   o.CreatedAt(),
	}
	if err := c.publisher.Publish(ctx, o.ID().String(), event); err != nil {
		c.logger.Warn("failed to publish order created event",
			"order_id", o.ID().String(),
			"error", err.Error())
	}
}
