package http

import (
	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

// Server owns the configured engine and the port it listens on.
type Server struct {
	Engine *gin.Engine

	log  *logger.Logger
	port string
}

func NewServer(cfg RouterConfig, port string) *Server {
	return &Server{
		Engine: NewRouter(cfg),
		log:    cfg.Log,
		port:   port,
	}
}

func (s *Server) Run() error {
	if s.log != nil {
		s.log.Info("Server listening", "port", s.port)
	}
	return s.Engine.Run(":" + s.port)
}
