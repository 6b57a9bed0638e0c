package server

import (
	"github.com/gin-gonic/gin"

	"github.com/silenthink/memo-cli/internal/ai"
	"github.com/silenthink/memo-cli/internal/backup"
	"github.com/silenthink/memo-cli/internal/store"
)

// Server wires the HTTP routes to the store, the backup manager and the
// optional AI suggester.
type Server struct {
	store     *store.Store
	backups   *backup.Manager
	suggester *ai.Suggester
}

// New returns a server. suggester may be nil when no API key is configured;
// the suggestion endpoint then responds 503.
func New(s *store.Store, backups *backup.Manager, suggester *ai.Suggester) *Server {
	return &Server{store: s, backups: backups, suggester: suggester}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router(debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/ping", s.handlePing)

	v1 := r.Group("/v1")
	{
		v1.GET("/memos", s.handleListMemos)
		v1.POST("/memos", s.handleCreateMemo)
		v1.GET("/memos/:id", s.handleGetMemo)
		v1.PUT("/memos/:id", s.handleUpdateMemo)
		v1.DELETE("/memos/:id", s.handleDeleteMemo)

		v1.GET("/categories", s.handleListCategories)
		v1.POST("/categories/suggest", s.handleSuggestCategory)

		v1.GET("/backups", s.handleListBackups)
		v1.POST("/backups", s.handleCreateBackup)
		v1.POST("/backups/restore", s.handleRestoreBackup)
		v1.DELETE("/backups", s.handleDeleteBackup)
	}

	return r
}
