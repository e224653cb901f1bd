package handler

import (
	"net/http"

	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ListReviews обрабатывает GET /reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	response, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, response)
}

// PlaceReview обрабатывает PUT /placereview
func (h *ReviewHandler) PlaceReview(c *gin.Context) {
	var review entity.Review
	// null в теле дает nil-документ без ошибки
	if err := c.ShouldBindJSON(&review); err != nil || review == nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.reviewService.PlaceReview(c.Request.Context(), review)
	if err != nil {
		respondError(c, err, "Failed to place review")
		return
	}

	c.JSON(http.StatusOK, result)
}
