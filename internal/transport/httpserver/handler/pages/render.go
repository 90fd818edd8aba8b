package pages

import (
	"bytes"
	"net/http"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.InternalError("pages.render: execute template failed", err, "template", name)
		http.Error(w, "Erreur interne", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formatDate renders t as "2 janvier 2025 à 09:05" in UTC.
func formatDate(t time.Time) string {
	t = t.UTC()
	return t.Format("2") + " " + frenchMonths[t.Month()-1] + " " + t.Format("2006") + " à " + t.Format("15:04")
}
