package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/classbridge-backend/internal/http/response"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type CheckoutHandler struct {
	checkout  services.CheckoutService
	analytics services.AnalyticsService
}

func NewCheckoutHandler(checkout services.CheckoutService, analytics services.AnalyticsService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, analytics: analytics}
}

// POST /api/courses/:courseId/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	order, err := h.checkout.Checkout(c.Request.Context(), principal(c), courseID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, order)
}

// POST /api/courses/:courseId/verify
// body: { "razorpay_order_id", "razorpay_payment_id", "razorpay_signature" }
func (h *CheckoutHandler) Verify(c *gin.Context) {
	courseID, ok := uuidParam(c, "courseId")
	if !ok {
		return
	}
	var req services.VerifyPaymentInput
	if !bindJSON(c, &req) {
		return
	}
	purchase, err := h.checkout.Verify(c.Request.Context(), principal(c), courseID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "purchase": purchase})
}

// GET /api/admin/analytics
func (h *CheckoutHandler) Analytics(c *gin.Context) {
	out, err := h.analytics.Summary(c.Request.Context(), principal(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
