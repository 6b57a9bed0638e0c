package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/silenthink/memo-cli/internal/backup"
	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/query"
	"github.com/silenthink/memo-cli/internal/store"
)

type createMemoRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Priority  int    `json:"priority"`
	ImagePath string `json:"imagePath"`
}

type updateMemoRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Category  *string `json:"category"`
	Priority  *int    `json:"priority"`
	ImagePath *string `json:"imagePath"`
}

type suggestCategoryRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type restoreBackupRequest struct {
	Path          string `json:"path" binding:"required"`
	ClearExisting bool   `json:"clearExisting"`
}

type deleteBackupRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) handlePing(c *gin.Context) {
	if err := s.store.Health(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListMemos serves the list endpoint. The search, category and sort
// query parameters combine exactly as in the CLI: an active search pins the
// order to modified date descending.
func (s *Server) handleListMemos(c *gin.Context) {
	search := c.Query("search")
	category := c.DefaultQuery("category", models.CategoryAll)
	sort := models.ParseSortOption(c.DefaultQuery("sort", models.SortModifiedDateDesc.String()))

	var (
		memos []models.Memo
		err   error
	)
	switch {
	case search != "" && category != models.CategoryAll:
		memos, err = s.store.Memos.SearchByCategory(category, search)
	case search != "":
		memos, err = s.store.Memos.Search(search)
	case category != models.CategoryAll:
		memos, err = s.store.Memos.ListByCategory(category, sort)
	default:
		memos, err = s.store.Memos.ListAll(sort)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"memos": memos, "count": len(memos)})
}

func (s *Server) handleCreateMemo(c *gin.Context) {
	var req createMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = models.DefaultCategory
	}
	now := time.Now()
	memo := models.Memo{
		Title:        req.Title,
		Content:      req.Content,
		Category:     req.Category,
		Priority:     req.Priority,
		ImagePath:    req.ImagePath,
		CreatedDate:  now,
		ModifiedDate: now,
	}
	if _, err := s.store.Memos.Insert(&memo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, memo)
}

func (s *Server) handleGetMemo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memo id"})
		return
	}
	memo, err := s.store.Memos.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "memo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, memo)
}

// handleUpdateMemo applies a partial update and bumps the modified date.
func (s *Server) handleUpdateMemo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memo id"})
		return
	}
	var req updateMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memo, err := s.store.Memos.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "memo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		memo.Title = *req.Title
	}
	if req.Content != nil {
		memo.Content = *req.Content
	}
	if req.Category != nil {
		memo.Category = *req.Category
	}
	if req.Priority != nil {
		memo.Priority = *req.Priority
	}
	if req.ImagePath != nil {
		memo.ImagePath = *req.ImagePath
	}
	memo.ModifiedDate = time.Now()

	if err := s.store.Memos.Update(memo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, memo)
}

func (s *Server) handleDeleteMemo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid memo id"})
		return
	}
	if _, err := s.store.Memos.GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "memo not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.Memos.DeleteByID(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// handleListCategories returns the picker vocabulary: "All", stored
// categories, then the built-in defaults not already present.
func (s *Server) handleListCategories(c *gin.Context) {
	stored, err := s.store.Memos.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": query.BuildVocabulary(stored)})
}

func (s *Server) handleSuggestCategory(c *gin.Context) {
	if s.suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI suggestions not configured"})
		return
	}
	var req suggestCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	suggestion, err := s.suggester.Suggest(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (s *Server) handleListBackups(c *gin.Context) {
	infos, err := s.backups.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": infos, "count": len(infos)})
}

func (s *Server) handleCreateBackup(c *gin.Context) {
	path, err := s.backups.Create()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (s *Server) handleRestoreBackup(c *gin.Context) {
	var req restoreBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snapshot, report, err := s.backups.Restore(req.Path, req.ClearExisting)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, backup.ErrSnapshotNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"backupTime":    snapshot.BackupTime.Time(),
		"memosInserted": report.MemosInserted,
		"memosFailed":   report.MemosFailed,
		"usersInserted": report.UsersInserted,
		"usersSkipped":  report.UsersSkipped,
		"usersFailed":   report.UsersFailed,
		"memosCleared":  report.MemosCleared,
	})
}

func (s *Server) handleDeleteBackup(c *gin.Context) {
	var req deleteBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	removed, err := s.backups.Delete(req.Path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "backup file not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.Path})
}
