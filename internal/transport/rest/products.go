package rest

import (
	"net/http"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
)

// FindAllProducts retrieves all products with their stores.
func (h *Handler) FindAllProducts(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.products.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindProductByID retrieves a product by its ID.
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.products.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve product with ID "+id.String())
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// CreateProduct handles the creation of a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInputDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &input) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create product", "product", input)
	created, err := h.products.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// UpdateProduct overwrites the fields of a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	var input service.ProductInputDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &input) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update product", "ID", id)
	updated, err := h.products.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update product with ID "+id.String())
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteProduct deletes a product by its ID.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.products.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete product with ID "+id.String())
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}
