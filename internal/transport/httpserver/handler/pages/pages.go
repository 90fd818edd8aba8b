package pages

import (
	"errors"
	"net/http"
	"time"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/domain/session"
	"bringlist/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

const maxFormBytes = 64 << 10

type loginView struct {
	Redirect string
	Error    string
}

type adminListView struct {
	ID        string
	ChildName string
	ItemCount int
	ShareURL  string
	UpdatedAt time.Time
}

type adminView struct {
	Lists []adminListView
	Items []itemsdomain.ItemWithUsage
}

type listEntryView struct {
	Name     string
	Quantity int
	Note     string
}

type listView struct {
	ChildName string
	Entries   []listEntryView
	UpdatedAt time.Time
}

func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.Authenticated(r) {
		http.Redirect(w, r, middleware.SafeRedirectPath(r.URL.Query().Get("redirect")), http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login.html", loginView{
		Redirect: middleware.SafeRedirectPath(r.URL.Query().Get("redirect")),
	})
}

func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.log.BusinessError("pages.login: invalid form", err)
		h.render(w, http.StatusBadRequest, "login.html", loginView{
			Redirect: middleware.SafeRedirectPath(""),
			Error:    "Requête invalide",
		})
		return
	}
	redirect := middleware.SafeRedirectPath(r.PostFormValue("redirect"))

	cred, err := h.Gate.Authenticate(r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			h.log.BusinessError("pages.login: wrong password", err)
			h.render(w, http.StatusUnauthorized, "login.html", loginView{Redirect: redirect, Error: "Mot de passe incorrect"})
			return
		}
		h.log.InternalError("pages.login: issue credential failed", err)
		h.render(w, http.StatusInternalServerError, "login.html", loginView{Redirect: redirect, Error: "Erreur de connexion"})
		return
	}

	h.Sessions.SetSessionCookie(w, cred)
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handlers) AdminPage(w http.ResponseWriter, r *http.Request) {
	all, err := h.Lists.ListLists(r.Context())
	if err != nil {
		h.log.InternalError("pages.admin: list lists failed", err)
		http.Error(w, "Erreur lors de la récupération des listes", http.StatusInternalServerError)
		return
	}
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("pages.admin: list items failed", err)
		http.Error(w, "Erreur lors de la récupération des éléments", http.StatusInternalServerError)
		return
	}

	view := adminView{
		Lists: make([]adminListView, 0, len(all)),
		Items: catalog,
	}
	for _, list := range all {
		view.Lists = append(view.Lists, adminListView{
			ID:        list.ID,
			ChildName: list.ChildName,
			ItemCount: len(list.Items),
			ShareURL:  h.ShareURL(list.ID),
			UpdatedAt: list.UpdatedAt,
		})
	}
	h.render(w, http.StatusOK, "admin.html", view)
}

// ListPage is the read-only page parents open from the shared link.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	list, err := h.Lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, listsdomain.ErrListNotFound) {
			h.log.BusinessError("pages.list: list not found", err, "list_id", id)
			h.render(w, http.StatusNotFound, "notfound.html", nil)
			return
		}
		h.log.InternalError("pages.list: get list failed", err, "list_id", id)
		http.Error(w, "Erreur lors de la récupération de la liste", http.StatusInternalServerError)
		return
	}
	catalog, err := h.Items.ListItems(r.Context())
	if err != nil {
		h.log.InternalError("pages.list: list items failed", err, "list_id", id)
		http.Error(w, "Erreur lors de la récupération de la liste", http.StatusInternalServerError)
		return
	}

	names := make(map[string]string, len(catalog))
	for _, item := range catalog {
		names[item.ID] = item.Name
	}

	view := listView{
		ChildName: list.ChildName,
		Entries:   make([]listEntryView, 0, len(list.Items)),
		UpdatedAt: list.UpdatedAt,
	}
	for _, entry := range list.Items {
		name, ok := names[entry.ItemID]
		if !ok {
			continue
		}
		view.Entries = append(view.Entries, listEntryView{
			Name:     name,
			Quantity: entry.Quantity,
			Note:     entry.Note,
		})
	}
	h.render(w, http.StatusOK, "list.html", view)
}
