//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"vendora/internal/domain/user"
	"vendora/internal/handler/api"
	reqdto "vendora/internal/handler/dto/request"
	resdto "vendora/internal/handler/dto/response"
	"vendora/internal/usecase/commands"
	"vendora/internal/usecase/queries"
	"vendora/tests/common/httptest"
	commandsmock "vendora/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCheckoutCommands
	handler      *api.CheckoutHandler
	buyerID      uuid.UUID
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCheckoutCommands(s.mockCtrl)
	s.handler = api.NewCheckoutHandler(s.mockCommands)
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

	s.router.POST("/checkout", authMiddleware, s.handler.PlaceOrder)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func validCheckoutRequest() reqdto.CheckoutRequest {
	productID := uuid.New()
	return reqdto.CheckoutRequest{
		Lines: []reqdto.CheckoutLine{
			{
				ProductID:      productID,
				Quantity:       2,
				UnitPriceCents: 10000,
				DisplayName:    "Walnut Desk",
			},
		},
		SubtotalCents: 20000,
		ShippingCents: 1500,
		TaxCents:      2000,
		TotalCents:    23500,
	}
}

func orderViewFor(buyerID uuid.UUID, req reqdto.CheckoutRequest) *queries.OrderView {
	lines := make([]queries.OrderLineView, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, queries.OrderLineView{
			ProductID:       l.ProductID,
			ProductName:     l.DisplayName,
			Quantity:        l.Quantity,
			UnitPriceCents:  l.UnitPriceCents,
			TotalPriceCents: int64(l.Quantity) * l.UnitPriceCents,
		})
	}
	return &queries.OrderView{
		ID:                 uuid.New(),
		BuyerID:            buyerID,
		OrderNumber:        "ORD-20260829-120000-A1B2C3",
		Lines:              lines,
		SubtotalCents:      req.SubtotalCents,
		ShippingCents:      req.ShippingCents,
		TaxCents:           req.TaxCents,
		TotalCents:         req.TotalCents,
		Status:             "pending",
		PaymentStatus:      "pending",
		VerificationStatus: "unverified",
		CreatedAt:          time.Now().UTC(),
	}
}

func (s *CheckoutHandlerTestSuite) TestPlaceOrder() {
	url := "/checkout"
	reqBody := validCheckoutRequest()

	s.Run("success: returns 201 Created with the order view", func() {
		view := orderViewFor(s.buyerID, reqBody)
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), s.buyerID, reqBody).
			Return(&commands.CheckoutResult{Order: view}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(s.buyerID, response.BuyerID)
		s.Equal(view.OrderNumber, response.OrderNumber)
		s.Equal(view.TotalCents, response.TotalCents)
		s.Len(response.Lines, 1)
		s.Equal("Walnut Desk", response.Lines[0].ProductName)
	})

	s.Run("error: 422 with per-line reasons when the cart is rejected", func() {
		rejection := &commands.CheckoutRejection{Reasons: []string{
			"Walnut Desk: only 1 available, requested 2",
			"price of Oak Chair has changed, please review your cart",
		}}
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), s.buyerID, reqBody).
			Return(nil, rejection).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		var body struct {
			Error   string   `json:"error"`
			Reasons []string `json:"reasons"`
		}
		httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("Checkout rejected", body.Error)
		s.Equal(rejection.Reasons, body.Reasons)
	})

	s.Run("error: 422 when the cart has no valid items", func() {
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), s.buyerID, gomock.Any()).
			Return(nil, commands.ErrNoValidItems).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.CheckoutRequest{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "No valid items")
	})

	s.Run("error: 400 on domain validation failure", func() {
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), s.buyerID, reqBody).
			Return(nil, commands.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request data")
	})

	s.Run("error: 400 Bad Request on binding errors", func() {
		testCases := []struct {
			name   string
			mutate func(r *reqdto.CheckoutRequest)
		}{
			{name: "zero quantity", mutate: func(r *reqdto.CheckoutRequest) { r.Lines[0].Quantity = 0 }},
			{name: "negative unit price", mutate: func(r *reqdto.CheckoutRequest) { r.Lines[0].UnitPriceCents = -1 }},
			{name: "missing display name", mutate: func(r *reqdto.CheckoutRequest) { r.Lines[0].DisplayName = "" }},
			{name: "negative total", mutate: func(r *reqdto.CheckoutRequest) { r.TotalCents = -100 }},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := validCheckoutRequest()
				tc.mutate(&body)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 500 Internal Server Error on unexpected failure", func() {
		s.mockCommands.EXPECT().PlaceOrder(gomock.Any(), s.buyerID, reqBody).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
