package lists

import (
	"errors"
	"net/http"
	"time"

	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type listItemResponse struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

type listResponse struct {
	ID        string             `json:"id"`
	ChildName string             `json:"childName"`
	Items     []listItemResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	all, err := h.Lists.ListLists(r.Context())
	if err != nil {
		h.log.InternalError("lists.list: list lists failed", err)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la récupération des listes")
		return
	}

	response := make([]listResponse, 0, len(all))
	for _, list := range all {
		response = append(response, toListResponse(list))
	}
	common.WriteJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	list, err := h.Lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, listsdomain.ErrListNotFound) {
			h.log.BusinessError("lists.get: list not found", err, "list_id", id)
			common.WriteError(w, http.StatusNotFound, "Liste non trouvée")
			return
		}
		h.log.InternalError("lists.get: get list failed", err, "list_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la récupération de la liste")
		return
	}
	common.WriteJSON(w, http.StatusOK, toListResponse(*list))
}

func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		h.log.BusinessError("lists.create: invalid body", err)
		common.WriteError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	list, err := h.Lists.CreateList(r.Context(), listsdomain.CreateListInput{
		ChildName: req.ChildName,
		Items:     toListItems(req.Items),
	})
	if err != nil {
		if listsdomain.IsValidationError(err) {
			h.log.BusinessError("lists.create: validation failed", err)
			common.WriteError(w, http.StatusBadRequest, validationMessage(err))
			return
		}
		h.log.InternalError("lists.create: create list failed", err)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la création de la liste")
		return
	}

	h.log.Info("lists.create: list created", "list_id", list.ID, "items", len(list.Items))
	common.WriteJSON(w, http.StatusCreated, toListResponse(*list))
}

func (h *Handlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateListRequest
	if err := common.DecodeJSON(w, r, &req); err != nil {
		h.log.BusinessError("lists.update: invalid body", err, "list_id", id)
		common.WriteError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	input := listsdomain.UpdateListInput{
		ID:        id,
		ChildName: req.ChildName,
	}
	if req.Items != nil {
		entries := toListItems(*req.Items)
		input.Items = &entries
	}

	list, err := h.Lists.UpdateList(r.Context(), input)
	if err != nil {
		switch {
		case listsdomain.IsValidationError(err):
			h.log.BusinessError("lists.update: validation failed", err, "list_id", id)
			common.WriteError(w, http.StatusBadRequest, validationMessage(err))
		case errors.Is(err, listsdomain.ErrListNotFound):
			h.log.BusinessError("lists.update: list not found", err, "list_id", id)
			common.WriteError(w, http.StatusNotFound, "Liste non trouvée")
		default:
			h.log.InternalError("lists.update: update list failed", err, "list_id", id)
			common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la mise à jour de la liste")
		}
		return
	}
	common.WriteJSON(w, http.StatusOK, toListResponse(*list))
}

func (h *Handlers) DeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Lists.DeleteList(r.Context(), id); err != nil {
		if errors.Is(err, listsdomain.ErrListNotFound) {
			h.log.BusinessError("lists.delete: list not found", err, "list_id", id)
			common.WriteError(w, http.StatusNotFound, "Liste non trouvée")
			return
		}
		h.log.InternalError("lists.delete: delete list failed", err, "list_id", id)
		common.WriteError(w, http.StatusInternalServerError, "Erreur lors de la suppression de la liste")
		return
	}

	h.log.Info("lists.delete: list deleted", "list_id", id)
	common.WriteSuccess(w)
}

func toListResponse(list listsdomain.List) listResponse {
	entries := make([]listItemResponse, 0, len(list.Items))
	for _, entry := range list.Items {
		entries = append(entries, listItemResponse{
			ItemID:   entry.ItemID,
			Quantity: entry.Quantity,
			Note:     entry.Note,
		})
	}
	return listResponse{
		ID:        list.ID,
		ChildName: list.ChildName,
		Items:     entries,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, listsdomain.ErrChildNameRequired):
		return "Le nom de l'enfant est requis"
	case errors.Is(err, listsdomain.ErrItemIDRequired):
		return "Identifiant d'élément requis"
	case errors.Is(err, listsdomain.ErrUnknownItem):
		return "La liste contient un élément inconnu"
	case errors.Is(err, listsdomain.ErrDuplicateItem):
		return "La liste contient un élément en double"
	default:
		return "Requête invalide"
	}
}
