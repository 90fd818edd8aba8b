package handler

import (
	"bringlist/internal/transport/httpserver/handler/common"
	"bringlist/internal/transport/httpserver/handler/items"
	"bringlist/internal/transport/httpserver/handler/lists"
	"bringlist/internal/transport/httpserver/handler/pages"
)

type Handlers struct {
	Common *common.Handlers
	Items  *items.Handlers
	Lists  *lists.Handlers
	Pages  *pages.Handlers
}

func New(common *common.Handlers, items *items.Handlers, lists *lists.Handlers, pages *pages.Handlers) *Handlers {
	return &Handlers{
		Common: common,
		Items:  items,
		Lists:  lists,
		Pages:  pages,
	}
}
