package api

import (
	"errors"
	"net/http"

	reqdto "vendora/internal/handler/dto/request"
	resdto "vendora/internal/handler/dto/response"
	"vendora/internal/handler/middleware"
	"vendora/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutCommands commands.CheckoutCommands
}

func NewCheckoutHandler(checkoutCommands commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutCommands: checkoutCommands,
	}
}

// @Summary Place an order
// @Description Validate the cart against live product state and place an order
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Checkout request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.checkoutCommands.PlaceOrder(c.Request.Context(), buyerID, req)
	if err != nil {
		var rejection *commands.CheckoutRejection
		switch {
		case errors.As(err, &rejection):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Checkout rejected",
				"reasons": rejection.Reasons,
			})
		case errors.Is(err, commands.ErrNoValidItems):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No valid items to order",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response, err := resdto.FromOrderView(result.Order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusCreated, response)
}
