package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/service"
	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/httputil"
	"github.com/utafrali/EcoTrail/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for submitting a review.
// product_id, title and body must be present but may be empty.
type CreateReviewRequest struct {
	ProductID        *string        `json:"product_id" validate:"required"`
	Title            *string        `json:"title" validate:"required"`
	Body             *string        `json:"body" validate:"required"`
	Photos           []string       `json:"photos" validate:"dive,http_url"`
	Videos           []string       `json:"videos" validate:"dive,http_url"`
	VerifiedPurchase bool           `json:"verified_purchase"`
	DaysTested       *int           `json:"days_tested" validate:"omitempty,gte=0"`
	Ratings          map[string]int `json:"ratings"`
	ActivityUsed     *string        `json:"activity_used"`
	SeasonTested     *string        `json:"season_tested"`
	ExperienceLevel  *string        `json:"experience_level"`
	Variant          *string        `json:"variant"`
	AuthorName       *string        `json:"author_name"`
}

func (req CreateReviewRequest) toDomain() *domain.Review {
	rv := &domain.Review{
		ProductID:        *req.ProductID,
		Title:            *req.Title,
		Body:             *req.Body,
		Photos:           req.Photos,
		Videos:           req.Videos,
		VerifiedPurchase: req.VerifiedPurchase,
		DaysTested:       req.DaysTested,
		Ratings:          req.Ratings,
		ActivityUsed:     req.ActivityUsed,
		SeasonTested:     req.SeasonTested,
		ExperienceLevel:  req.ExperienceLevel,
		Variant:          req.Variant,
		AuthorName:       req.AuthorName,
	}
	rv.Normalize()
	return rv
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id, err := h.service.CreateReview(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// ListReviews handles GET /api/reviews/{product_id}
// The optional min_rating keeps reviews whose sustainability rating is at
// least that value. The result is a bare JSON array in store order.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	filter := catalog.ReviewFilter{ProductID: chi.URLParam(r, "product_id")}

	if raw := httputil.QueryString(r, "min_rating"); raw != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidParameter("min_rating", *raw, "must be an integer"), h.logger)
			return
		}
		filter.MinRating = &n
	}

	reviews, err := h.service.ListReviews(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	httputil.WriteJSON(w, http.StatusOK, reviews)
}
