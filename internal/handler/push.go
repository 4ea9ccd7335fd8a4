package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PushHandler struct {
	DB *gorm.DB
}

func NewPushHandler(db *gorm.DB) *PushHandler {
	return &PushHandler{DB: db}
}

type pushTokenReq struct {
	Token      string  `json:"token" binding:"required,min=10,max=255"`
	DeviceType *string `json:"device_type" binding:"omitempty,oneof=ios android web"`
	DeviceName *string `json:"device_name" binding:"omitempty,max=100"`
}

// Register stores a push token, reactivating it if the same token was
// registered before (possibly by another account on a shared device).
func (h *PushHandler) Register(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req pushTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid token payload")
		return
	}

	now := time.Now().UTC()
	var token models.PushToken
	err := h.DB.Where("token = ?", req.Token).First(&token).Error
	switch err {
	case nil:
		token.UserID = user.ID
		token.DeviceType = req.DeviceType
		token.DeviceName = req.DeviceName
		token.IsActive = true
		token.LastUsedAt = now
		err = h.DB.Save(&token).Error
	case gorm.ErrRecordNotFound:
		token = models.PushToken{
			UserID:     user.ID,
			Token:      req.Token,
			DeviceType: req.DeviceType,
			DeviceName: req.DeviceName,
			IsActive:   true,
			LastUsedAt: now,
		}
		err = h.DB.Create(&token).Error
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to register token")
		return
	}
	util.Created(c, token)
}

// List returns the caller's push tokens.
func (h *PushHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var tokens []models.PushToken
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&tokens).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list tokens")
		return
	}
	util.JSON(c, tokens)
}

// Delete removes one of the caller's push tokens.
func (h *PushHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid token id")
		return
	}

	result := h.DB.Where("user_id = ?", user.ID).Delete(&models.PushToken{}, id)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete token")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Token not found")
		return
	}
	util.NoContent(c)
}

// DeleteAll removes every push token the caller holds.
func (h *PushHandler) DeleteAll(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.DB.Where("user_id = ?", user.ID).
		Delete(&models.PushToken{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete tokens")
		return
	}
	util.NoContent(c)
}

// Deactivate keeps the row but stops delivery to it.
func (h *PushHandler) Deactivate(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid token id")
		return
	}

	result := h.DB.Model(&models.PushToken{}).
		Where("id = ? AND user_id = ?", id, user.ID).
		Update("is_active", false)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to deactivate token")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Token not found")
		return
	}
	util.JSON(c, gin.H{"ok": true})
}
