// Package rest provides the HTTP handlers of the catalog.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/validation"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	products     service.ProductService
	stores       service.StoreService
	associations service.AssociationService
	validate     *validator.Validate
	logger       *slog.Logger
}

// NewHandler creates a new Handler over the catalog services.
func NewHandler(products service.ProductService, stores service.StoreService, associations service.AssociationService, logger *slog.Logger) *Handler {
	return &Handler{
		products:     products,
		stores:       stores,
		associations: associations,
		validate:     validator.New(),
		logger:       logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the product, store and association routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAllProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.FindProductByID)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)

		r.Get("/{productId}/stores", h.ListAssociations)
		r.Put("/{productId}/stores", h.ReplaceAssociations)
		r.Post("/{productId}/stores/{storeId}", h.AddAssociation)
		r.Get("/{productId}/stores/{storeId}", h.FindAssociation)
		r.Delete("/{productId}/stores/{storeId}", h.RemoveAssociation)
	})

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", h.FindAllStores)
		r.Post("/", h.CreateStore)
		r.Get("/{id}", h.FindStoreByID)
		r.Put("/{id}", h.UpdateStore)
		r.Delete("/{id}", h.DeleteStore)
	})
}

// respondServiceError maps the kind of err to a status code. Internal
// failures are logged and answered with fallback, never with err itself.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		status, message = http.StatusBadRequest, fieldErr.Error()
	case errors.Is(err, catalogerrors.ErrProductNotFound):
		status, message = http.StatusNotFound, "Product not found"
	case errors.Is(err, catalogerrors.ErrStoreNotFound):
		status, message = http.StatusNotFound, "Store not found"
	case errors.Is(err, catalogerrors.ErrStoreNotAssociated):
		status, message = http.StatusPreconditionFailed, "Store is not associated to the product"
	default:
		switch catalogerrors.KindOf(err) {
		case catalogerrors.KindNotFound:
			status, message = http.StatusNotFound, err.Error()
		case catalogerrors.KindBadRequest:
			status, message = http.StatusBadRequest, err.Error()
		case catalogerrors.KindPreconditionFailed:
			status, message = http.StatusPreconditionFailed, err.Error()
		}
	}

	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), fallback, "error", err)
	} else {
		h.logger.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	}
	web.RespondError(w, h.logger, status, message)
}
