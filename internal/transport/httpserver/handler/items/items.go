package items

import (
	"errors"
	"net/http"

	itemsdomain "bringlist/internal/domain/items"
	"bringlist/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type itemRequest struct {
	Name string `json:"name"`
}

type itemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type itemWithUsageResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usageCount"`
}

func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("items.list: list items failed", err)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la récupération des éléments")
		return
	}

	response := make([]itemWithUsageResponse, 0, len(catalog))
	for _, item := range catalog {
		response = append(response, toItemWithUsageResponse(item))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.Items.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, itemsdomain.ErrItemNotFound) {
			h.log.BusinessError("items.get: item not found", err, "item_id", id)
			common.WriteError(w, http.StatusNotFound, "Élément non trouvé")
			return
		}
		h.log.InternalError("items.get: get item failed", err, "item_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la récupération de l'élément")
		return
	}
	common.WriteJSON(w, http.StatusOK, toItemWithUsageResponse(*item))
}

func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		h.log.BusinessError("items.create: invalid body", err)
		common.WriteError(w, http.StatusBadRequest, "Le nom de l'élément est requis")
		return
	}

	item, err := h.Items.CreateItem(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, itemsdomain.ErrNameRequired) {
			h.log.BusinessError("items.create: validation failed", err)
			common.WriteError(w, http.StatusBadRequest, "Le nom de l'élément est requis")
			return
		}
		h.log.InternalError("items.create: create item failed", err)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la création de l'élément")
		return
	}

	h.log.Info("items.create: item created", "item_id", item.ID)
	common.WriteJSON(w, http.StatusCreated, toItemResponse(*item))
}

func (h *Handlers) RenameItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req itemRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		h.log.BusinessError("items.rename: invalid body", err, "item_id", id)
		common.WriteError(w, http.StatusBadRequest, "Le nom de l'élément est requis")
		return
	}

	item, err := h.Items.RenameItem(r.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, itemsdomain.ErrNameRequired):
			h.log.BusinessError("items.rename: validation failed", err, "item_id", id)
			common.WriteError(w, http.StatusBadRequest, "Le nom de l'élément est requis")
		case errors.Is(err, itemsdomain.ErrItemNotFound):
			h.log.BusinessError("items.rename: item not found", err, "item_id", id)
			common.WriteError(w, http.StatusNotFound, "Élément non trouvé")
		default:
			h.log.InternalError("items.rename: rename item failed", err, "item_id", id)
			common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la mise à jour de l'élément")
		}
		return
	}
	common.WriteJSON(w, http.StatusOK, toItemResponse(*item))
}

func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Items.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, itemsdomain.ErrItemNotFound) {
			h.log.BusinessError("items.delete: item not found", err, "item_id", id)
			common.WriteError(w, http.StatusNotFound, "Élément non trouvé")
			return
		}
		h.log.InternalError("items.delete: delete item failed", err, "item_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la suppression de l'élément")
		return
	}

	h.log.Info("items.delete: item deleted", "item_id", id)
	common.WriteSuccess(w)
}

func toItemResponse(item itemsdomain.Item) itemResponse {
	return itemResponse{ID: item.ID, Name: item.Name}
}

func toItemWithUsageResponse(item itemsdomain.ItemWithUsage) itemWithUsageResponse {
	return itemWithUsageResponse{
		ID:         item.ID,
		Name:       item.Name,
		UsageCount: item.UsageCount,
	}
}
