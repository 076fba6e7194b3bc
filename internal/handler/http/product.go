package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/EcoTrail/internal/catalog"
	"github.com/utafrali/EcoTrail/internal/domain"
	"github.com/utafrali/EcoTrail/internal/service"
	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/httputil"
	"github.com/utafrali/EcoTrail/pkg/pagination"
	"github.com/utafrali/EcoTrail/pkg/validator"
)

// FallbackHeader is set to "true" on listings served from the demo catalog.
const FallbackHeader = "X-Catalog-Fallback"

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
// Pointer fields distinguish "absent" from the zero value so defaults can be
// applied.
type CreateProductRequest struct {
	Title                  *string           `json:"title" validate:"required"`
	Description            *string           `json:"description"`
	Brand                  *string           `json:"brand"`
	Category               *string           `json:"category" validate:"required"`
	Subcategories          []string          `json:"subcategories"`
	ActivityTypes          []string          `json:"activity_types"`
	Seasons                []string          `json:"seasons"`
	SustainabilityFeatures []string          `json:"sustainability_features"`
	SpecialFeatures        []string          `json:"special_features"`
	Images                 []string          `json:"images" validate:"dive,http_url"`
	Price                  *float64          `json:"price" validate:"required,gte=0"`
	SalePrice              *float64          `json:"sale_price" validate:"omitempty,gte=0"`
	Currency               *string           `json:"currency" validate:"omitempty,len=3"`
	Rating                 *float64          `json:"rating" validate:"omitempty,gte=0,lte=5"`
	ReviewCount            *int              `json:"review_count" validate:"omitempty,gte=0"`
	InStock                *bool             `json:"in_stock"`
	Availability           *string           `json:"availability"`
	EcoBadge               *string           `json:"eco_badge"`
	Specs                  map[string]string `json:"specs"`
}

// toDomain fills in defaults for absent fields. sale_price is not compared
// with price.
func (req CreateProductRequest) toDomain() *domain.Product {
	p := &domain.Product{
		Title:                  *req.Title,
		Description:            req.Description,
		Brand:                  req.Brand,
		Category:               *req.Category,
		Subcategories:          req.Subcategories,
		ActivityTypes:          req.ActivityTypes,
		Seasons:                req.Seasons,
		SustainabilityFeatures: req.SustainabilityFeatures,
		SpecialFeatures:        req.SpecialFeatures,
		Images:                 req.Images,
		Price:                  *req.Price,
		SalePrice:              req.SalePrice,
		Currency:               valueOr(req.Currency, domain.DefaultCurrency),
		Rating:                 valueOr(req.Rating, 0),
		ReviewCount:            valueOr(req.ReviewCount, 0),
		InStock:                valueOr(req.InStock, true),
		Availability:           valueOr(req.Availability, domain.AvailabilityInStock),
		EcoBadge:               req.EcoBadge,
		Specs:                  req.Specs,
	}
	p.Normalize()
	return p
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// --- Handlers ---

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	in, err := parseListProducts(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	list, err := h.service.ListProducts(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if list.Fallback {
		w.Header().Set(FallbackHeader, "true")
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.NewPage(list.Items, list.Total, list.Page, list.PageSize))
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id, err := h.service.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, CreatedResponse{ID: id})
}

// CreatedResponse is returned by the create endpoints.
type CreatedResponse struct {
	ID string `json:"id"`
}

func parseListProducts(r *http.Request) (service.ListProductsInput, error) {
	var in service.ListProductsInput

	minPrice, err := httputil.QueryFloat(r, "min_price")
	if err != nil {
		return in, err
	}
	maxPrice, err := httputil.QueryFloat(r, "max_price")
	if err != nil {
		return in, err
	}

	in.Filter = catalog.ProductFilter{
		Query:       httputil.QueryString(r, "q"),
		Category:    httputil.QueryString(r, "category"),
		Activity:    httputil.QueryString(r, "activity"),
		Season:      httputil.QueryString(r, "season"),
		Sustainable: httputil.QueryString(r, "sustainable"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}

	in.Sort = domain.DefaultSort
	if v := httputil.QueryString(r, "sort"); v != nil {
		if !domain.IsValidSort(*v) {
			return in, apperrors.InvalidParameter("sort", *v,
				"must be one of: "+strings.Join(domain.ValidSorts(), ", "))
		}
		in.Sort = *v
	}

	in.Page, err = pagination.FromRequest(r)
	return in, err
}
