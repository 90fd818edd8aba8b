package pages

import (
	"embed"
	"html/template"
	"strings"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"bringlist/internal/domain/session"
	"bringlist/internal/transport/httpserver/middleware"
	"bringlist/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handlers struct {
	Items         *itemsdomain.Service
	Lists         *listsdomain.Service
	Gate          *session.Gate
	Sessions      *middleware.SessionAuth
	publicBaseURL string
	templates     *template.Template
	log           logger.Logger
}

func New(items *itemsdomain.Service, lists *listsdomain.Service, gate *session.Gate, sessions *middleware.SessionAuth, publicBaseURL string, log logger.Logger) (*Handlers, error) {
	templates, err := template.New("pages").Funcs(template.FuncMap{
		"formatDate": formatDate,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Items:         items,
		Lists:         lists,
		Gate:          gate,
		Sessions:      sessions,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		templates:     templates,
		log:           log,
	}, nil
}

// ShareURL is the public address of a list page.
func (h *Handlers) ShareURL(listID string) string {
	return h.publicBaseURL + "/list/" + listID
}
