package rest

import (
	"encoding/json"
	"net/http"

	"github.com/abgdnv/catalog/pkg/web"
	"github.com/google/uuid"
)

// StoreIDDto references a store in the body of ReplaceAssociations.
type StoreIDDto struct {
	ID string `json:"id" validate:"required,uuid"`
}

// AddAssociation appends the store to the product's stores.
func (h *Handler) AddAssociation(w http.ResponseWriter, r *http.Request) {
	productID, storeID, ok := h.parsePair(w, r)
	if !ok {
		return
	}
	h.logger.DebugContext(r.Context(), "Received request to add association", "productID", productID, "storeID", storeID)
	product, err := h.associations.Add(r.Context(), storeID, productID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to associate store to product")
		return
	}
	h.logger.InfoContext(r.Context(), "Store associated to product", "productID", productID, "storeID", storeID)
	web.RespondJSON(w, h.logger, http.StatusCreated, product)
}

// FindAssociation returns the store if it is associated to the product.
func (h *Handler) FindAssociation(w http.ResponseWriter, r *http.Request) {
	productID, storeID, ok := h.parsePair(w, r)
	if !ok {
		return
	}
	store, err := h.associations.Find(r.Context(), storeID, productID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to find association")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, store)
}

// ListAssociations returns the stores of the product in association order.
func (h *Handler) ListAssociations(w http.ResponseWriter, r *http.Request) {
	productID, ok := web.ParseID(w, r, h.logger, "productId")
	if !ok {
		return
	}
	stores, err := h.associations.List(r.Context(), productID)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to list product stores")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, stores)
}

// ReplaceAssociations overwrites the product's stores with the stores in the body.
func (h *Handler) ReplaceAssociations(w http.ResponseWriter, r *http.Request) {
	productID, ok := web.ParseID(w, r, h.logger, "productId")
	if !ok {
		return
	}
	var body []StoreIDDto
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	storeIDs := make([]uuid.UUID, len(body))
	for i, ref := range body {
		if err := h.validate.Struct(ref); err != nil {
			h.logger.WarnContext(r.Context(), "Invalid store reference", "index", i, "error", err)
			web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid store ID: "+ref.ID)
			return
		}
		storeIDs[i] = uuid.MustParse(ref.ID)
	}

	h.logger.DebugContext(r.Context(), "Received request to replace associations", "productID", productID, "count", len(storeIDs))
	product, err := h.associations.Replace(r.Context(), productID, storeIDs)
	if err != nil {
		h.respondServiceError(w, r, err, "Failed to replace product stores")
		return
	}
	h.logger.InfoContext(r.Context(), "Product stores replaced", "productID", productID, "count", len(storeIDs))
	web.RespondJSON(w, h.logger, http.StatusOK, product)
}

// RemoveAssociation removes the store from the product's stores.
func (h *Handler) RemoveAssociation(w http.ResponseWriter, r *http.Request) {
	productID, storeID, ok := h.parsePair(w, r)
	if !ok {
		return
	}
	if err := h.associations.Remove(r.Context(), storeID, productID); err != nil {
		h.respondServiceError(w, r, err, "Failed to remove association")
		return
	}
	h.logger.InfoContext(r.Context(), "Store removed from product", "productID", productID, "storeID", storeID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parsePair(w http.ResponseWriter, r *http.Request) (productID, storeID uuid.UUID, ok bool) {
	if productID, ok = web.ParseID(w, r, h.logger, "productId"); !ok {
		return
	}
	storeID, ok = web.ParseID(w, r, h.logger, "storeId")
	return
}
