package rest

import (
	"net/http"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
)

// FindAllStores retrieves all stores with their products.
func (h *Handler) FindAllStores(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received request to find all stores")
	list, err := h.stores.FindAll(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to fetch stores")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved store list", "count", len(list))
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// FindStoreByID retrieves a store by its ID.
func (h *Handler) FindStoreByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to find store by ID", "ID", id)
	found, err := h.stores.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to retrieve store with ID "+id.String())
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// CreateStore handles the creation of a new store.
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var input service.StoreInputDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &input) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to create store", "store", input)
	created, err := h.stores.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to create store")
		return
	}
	h.logger.InfoContext(r.Context(), "Store created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

// UpdateStore overwrites the fields of a store, keeping its products.
func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	var input service.StoreInputDto
	if !web.DecodeValid(w, r, h.logger, h.validate, &input) {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to update store", "ID", id)
	updated, err := h.stores.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to update store with ID "+id.String())
		return
	}
	h.logger.InfoContext(r.Context(), "Store updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteStore deletes a store by its ID.
func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger, "id")
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to delete store", "ID", id)
	if err := h.stores.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "Failed to delete store with ID "+id.String())
		return
	}
	h.logger.InfoContext(r.Context(), "Store deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}
