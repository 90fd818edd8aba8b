package common

import (
	"bringlist/internal/domain/session"
	"bringlist/internal/transport/httpserver/middleware"
	"bringlist/pkg/logger"
)

type Handlers struct {
	Gate     *session.Gate
	Sessions *middleware.SessionAuth
	log      logger.Logger
}

func New(gate *session.Gate, sessions *middleware.SessionAuth, log logger.Logger) *Handlers {
	return &Handlers{
		Gate:     gate,
		Sessions: sessions,
		log:      log,
	}
}
