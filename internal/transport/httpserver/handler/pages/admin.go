package pages

import (
	"errors"
	"net/http"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"github.com/go-chi/chi/v5"
)

type itemsView struct {
	Items []itemsdomain.ItemWithUsage
}

type editorEntryView struct {
	ItemID   string
	Name     string
	Selected bool
	Quantity int
	Note     string
}

type editorView struct {
	ListID    string
	ChildName string
	Entries   []editorEntryView
}

// AdminItemsPage manages the shared catalog.
func (h *Handlers) AdminItemsPage(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("pages.admin_items: list items failed", err)
		http.Error(w, "Erreur lors de la récupération des éléments", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "items.html", itemsView{Items: catalog})
}

func (h *Handlers) NewListPage(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("pages.new_list: list items failed", err)
		http.Error(w, "Erreur lors de la récupération des éléments", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "editor.html", editorView{Entries: editorEntries(catalog, nil)})
}

func (h *Handlers) EditListPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	list, err := h.Lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, listsdomain.ErrListNotFound) {
			h.log.BusinessError("pages.edit_list: list not found", err, "list_id", id)
			h.render(w, http.StatusNotFound, "notfound.html", nil)
			return
		}
		h.log.InternalError("pages.edit_list: get list failed", err, "list_id", id)
		http.Error(w, "Erreur lors de la récupération de la liste", http.StatusInternalServerError)
		return
	}
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("pages.edit_list: list items failed", err, "list_id", id)
		http.Error(w, "Erreur lors de la récupération des éléments", http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "editor.html", editorView{
		ListID:    list.ID,
		ChildName: list.ChildName,
		Entries:   editorEntries(catalog, list.Items),
	})
}

// editorEntries lists the whole catalog in catalog order, marking the items
// already on the list with their quantity and note.
func editorEntries(catalog []itemsdomain.ItemWithUsage, selected []listsdomain.ListItem) []editorEntryView {
	byID := make(map[string]listsdomain.ListItem, len(selected))
	for _, entry := range selected {
		byID[entry.ItemID] = entry
	}

	result := make([]editorEntryView, 0, len(catalog))
	for _, item := range catalog {
		view := editorEntryView{ItemID: item.ID, Name: item.Name, Quantity: listsdomain.DefaultQuantity}
		if entry, ok := byID[item.ID]; ok {
			view.Selected = true
			view.Quantity = entry.Quantity
			view.Note = entry.Note
		}
		result = append(result, view)
	}
	return result
}
