package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/M-owl-8/ACT/internal/backup"
	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler exposes the admin-only backup operations.
type BackupHandler struct {
	Service *backup.Service
}

func NewBackupHandler(service *backup.Service) *BackupHandler {
	return &BackupHandler{Service: service}
}

// Create takes a manual backup of the database file.
func (h *BackupHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	record, err := h.Service.Create(models.BackupManual, &user.ID)
	if err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backups are only available on the SQLite backend")
			return
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create backup")
		return
	}
	util.Created(c, record)
}

// List returns recorded backups, newest first. ?limit= caps the page.
func (h *BackupHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.Service.List(limit)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list backups")
		return
	}
	util.JSON(c, records)
}

// Cleanup removes backups older than ?keep_days= (default from config).
func (h *BackupHandler) Cleanup(c *gin.Context) {
	keepDays := 0
	if raw := c.Query("keep_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "keep_days must be a positive integer")
			return
		}
		keepDays = n
	}

	removed, err := h.Service.Cleanup(keepDays)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to clean up backups")
		return
	}
	util.JSON(c, gin.H{"removed": removed})
}

// Restore swaps the live database file for a backup. A safety copy of the
// current file is taken first. The process should be restarted afterwards.
func (h *BackupHandler) Restore(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid backup id")
		return
	}

	record, err := h.Service.Restore(uint(id))
	if err != nil {
		if errors.Is(err, backup.ErrUnsupported) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Backups are only available on the SQLite backend")
			return
		}
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Backup not found or restore failed")
		return
	}
	util.JSON(c, gin.H{
		"restored": record,
		"message":  "Database restored. Restart the server to reload connections.",
	})
}
