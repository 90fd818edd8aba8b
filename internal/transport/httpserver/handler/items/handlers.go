package items

import (
	itemsdomain "bringlist/internal/domain/items"
	"bringlist/pkg/logger"
)

type Handlers struct {
	Items *itemsdomain.Service
	log   logger.Logger
}

func New(items *itemsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Items: items,
		log:   log,
	}
}
