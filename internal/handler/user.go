package handler

import (
	"net/http"
	"strings"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not authenticated")
		return
	}
	util.JSON(c, user)
}

type updateMeReq struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Language *string `json:"language" binding:"omitempty,oneof=en ru uz"`
	Theme    *string `json:"theme" binding:"omitempty,oneof=light dark"`
	Currency *string `json:"currency"`
}

// UpdateMe patches profile preferences. Currency is fixed at registration
// and any attempt to change it is rejected outright.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not authenticated")
		return
	}

	var req updateMeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid profile payload")
		return
	}

	if req.Currency != nil && strings.ToUpper(strings.TrimSpace(*req.Currency)) != user.Currency {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Currency cannot be changed after registration")
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.Theme != nil {
		user.Theme = *req.Theme
	}
	if err := h.DB.Save(user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update profile")
		return
	}
	util.JSON(c, user)
}

// List returns every account. Admin only, mounted behind RequireAdmin.
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id").Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list users")
		return
	}
	util.JSON(c, users)
}

// Devices lists the caller's recorded login devices, most recent first.
func (h *UserHandler) Devices(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Not authenticated")
		return
	}

	var devices []models.UserDevice
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("last_login DESC").
		Find(&devices).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list devices")
		return
	}
	util.JSON(c, devices)
}
