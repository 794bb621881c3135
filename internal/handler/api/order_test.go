//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"vendora/internal/domain/user"
	"vendora/internal/handler/api"
	resdto "vendora/internal/handler/dto/response"
	"vendora/internal/infra"
	"vendora/internal/usecase/queries"
	"vendora/tests/common/httptest"
	queriesmock "vendora/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockOrderQueries
	handler     *api.OrderHandler
	buyerID     uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockQueries)
	s.buyerID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.buyerID)
		c.Set("user_role", user.RoleBuyer)
		c.Next()
	}

	s.router.GET("/orders", authMiddleware, s.handler.ListOrders)
	s.router.GET("/orders/:id", authMiddleware, s.handler.GetOrder)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) TestGetOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String()

	s.Run("success: returns 200 OK with OrderResponse", func() {
		view := &queries.OrderView{
			ID:                 orderID,
			BuyerID:            s.buyerID,
			OrderNumber:        "ORD-20260829-120000-A1B2C3",
			Lines:              []queries.OrderLineView{{ProductName: "Walnut Desk", Quantity: 1, UnitPriceCents: 10000, TotalPriceCents: 10000}},
			SubtotalCents:      10000,
			TotalCents:         11500,
			Status:             "pending",
			PaymentStatus:      "pending",
			VerificationStatus: "unverified",
			CreatedAt:          time.Now().UTC(),
		}
		s.mockQueries.EXPECT().GetForBuyer(gomock.Any(), s.buyerID, orderID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
		s.Equal(view.OrderNumber, response.OrderNumber)
		s.Equal(view.TotalCents, response.TotalCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 404 Not Found for missing order", func() {
		s.mockQueries.EXPECT().GetForBuyer(gomock.Any(), s.buyerID, orderID).
			Return(nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: another buyer's order also reads as 404", func() {
		s.mockQueries.EXPECT().GetForBuyer(gomock.Any(), s.buyerID, orderID).
			Return(nil, queries.ErrOrderAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().GetForBuyer(gomock.Any(), s.buyerID, orderID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *OrderHandlerTestSuite) TestListOrders() {
	url := "/orders"

	items := []*queries.OrderListItem{
		{ID: uuid.New(), OrderNumber: "ORD-20260829-120000-A1B2C3", TotalCents: 11500, Status: "pending", LineCount: 1, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), OrderNumber: "ORD-20260828-090000-D4E5F6", TotalCents: 34000, Status: "pending", LineCount: 2, CreatedAt: time.Now().UTC().Add(-24 * time.Hour)},
	}

	s.Run("success: returns the buyer's orders with the default limit", func() {
		s.mockQueries.EXPECT().ListByBuyer(gomock.Any(), s.buyerID, 50).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal(items[0].OrderNumber, response[0].OrderNumber)
		s.Equal(items[1].LineCount, response[1].LineCount)
	})

	s.Run("success: limit query parameter is passed through", func() {
		s.mockQueries.EXPECT().ListByBuyer(gomock.Any(), s.buyerID, 10).
			Return(items[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=10", nil, "bearer-token")

		var response []resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: empty history returns an empty array", func() {
		s.mockQueries.EXPECT().ListByBuyer(gomock.Any(), s.buyerID, 50).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().ListByBuyer(gomock.Any(), s.buyerID, 50).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
