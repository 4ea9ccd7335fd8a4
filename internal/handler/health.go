package handler

import (
	"net/http"

	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	util.JSON(c, gin.H{"status": "ok"})
}

// PingDB verifies the database connection is alive.
func (h *HealthHandler) PingDB(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Database unreachable")
		return
	}
	util.JSON(c, gin.H{"status": "ok", "database": "ok"})
}
