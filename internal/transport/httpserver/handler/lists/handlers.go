package lists

import (
	listsdomain "bringlist/internal/domain/lists"
	"bringlist/pkg/logger"
)

type Handlers struct {
	Lists *listsdomain.Service
	log   logger.Logger
}

func New(lists *listsdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Lists: lists,
		log:   log,
	}
}
