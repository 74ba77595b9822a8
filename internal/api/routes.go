package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter returns a gin engine with recovery, request logging and the
// API routes registered.
func NewRouter(s *Server, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	RegisterRoutes(r, s)
	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/presets", s.presetsHandler)
		api.POST("/icon/render", s.renderHandler)
		api.POST("/icon/export", s.exportHandler)
		api.POST("/preview", s.previewUpdateHandler)
		api.GET("/preview", s.previewHandler)
		api.GET("/preview/download", s.previewDownloadHandler)
	}
}
