package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/M-owl-8/ACT/internal/config"
	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration, login, token refresh/rotation and the
// recovery-keyword password reset flow.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

func NewAuthHandler(db *gorm.DB, cfg config.JWTConfig) *AuthHandler {
	accessMin := cfg.AccessExpireMin
	if accessMin <= 0 {
		accessMin = 15
	}
	refreshDays := cfg.RefreshExpireDays
	if refreshDays <= 0 {
		refreshDays = 14
	}
	resetHours := cfg.ResetTokenTTLHours
	if resetHours <= 0 {
		resetHours = 1
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  cfg.Secret,
		AccessTTL:  time.Duration(accessMin) * time.Minute,
		RefreshTTL: time.Duration(refreshDays) * 24 * time.Hour,
		ResetTTL:   time.Duration(resetHours) * time.Hour,
	}
}

// issuePair mints an access token and a tracked refresh token.
func (h *AuthHandler) issuePair(userID uint) (access, refresh string, err error) {
	access, err = util.GenerateAccessToken(h.JWTSecret, userID, h.AccessTTL)
	if err != nil {
		return "", "", err
	}

	jti := uuid.New().String()
	refresh, err = util.GenerateRefreshToken(h.JWTSecret, userID, jti, h.RefreshTTL)
	if err != nil {
		return "", "", err
	}

	record := models.Token{
		JTI:       jti,
		UserID:    userID,
		Type:      util.TokenRefresh,
		ExpiresAt: time.Now().UTC().Add(h.RefreshTTL),
	}
	if err := h.DB.Create(&record).Error; err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func tokenPair(access, refresh string) gin.H {
	return gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	}
}

// ---------- register ----------

type registerReq struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8,max=100"`
	RecoveryKeyword string `json:"recovery_keyword" binding:"required,min=3,max=100"`
	Name            string `json:"name" binding:"max=100"`
	Currency        string `json:"currency" binding:"omitempty,len=3"`
}

// Register creates an account. The first registered user becomes admin.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid registration payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check email")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeConflict, "Email already registered")
		return
	}

	var userCount int64
	if err := h.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to count users")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to hash password")
		return
	}
	keywordHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.RecoveryKeyword)), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to hash recovery keyword")
		return
	}

	user := models.User{
		Email:               email,
		PasswordHash:        string(passwordHash),
		RecoveryKeywordHash: string(keywordHash),
		Name:                strings.TrimSpace(req.Name),
		IsAdmin:             userCount == 0, // first registrant administers the instance
	}
	if req.Currency != "" {
		user.Currency = strings.ToUpper(req.Currency)
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create user")
		return
	}

	access, refresh, err := h.issuePair(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to issue tokens")
		return
	}
	util.Created(c, tokenPair(access, refresh))
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	// optional device info, recorded best effort
	DeviceName string `json:"device_name" binding:"max=100"`
	DeviceType string `json:"device_type" binding:"omitempty,oneof=mobile web tablet"`
	DeviceOS   string `json:"device_os" binding:"max=32"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid login payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.DB.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// same message as a bad password: no user-existence leak
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid credentials")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load user")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid credentials")
		return
	}

	h.recordDevice(&user, req.DeviceName, req.DeviceType, req.DeviceOS)

	access, refresh, err := h.issuePair(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to issue tokens")
		return
	}
	util.JSON(c, tokenPair(access, refresh))
}

// recordDevice upserts a user_devices row. Never blocks login.
func (h *AuthHandler) recordDevice(user *models.User, name, deviceType, deviceOS string) {
	if name == "" || deviceType == "" {
		return
	}

	now := time.Now().UTC()
	var device models.UserDevice
	err := h.DB.Where("user_id = ? AND device_name = ? AND device_type = ?",
		user.ID, name, deviceType).First(&device).Error
	switch err {
	case nil:
		device.LastLogin = now
		device.IsActive = true
		err = h.DB.Save(&device).Error
	case gorm.ErrRecordNotFound:
		device = models.UserDevice{
			UserID:     user.ID,
			DeviceName: name,
			DeviceType: deviceType,
			LastLogin:  now,
		}
		if deviceOS != "" {
			device.OS = &deviceOS
		}
		err = h.DB.Create(&device).Error
	}
	if err != nil {
		logging.L.Warn().Err(err).Uint("user_id", user.ID).Msg("device record failed")
	}
}

// ---------- refresh / logout ----------

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh validates a refresh token, rotates it (revoking the old jti) and
// issues a new access+refresh pair. Expired, malformed and revoked tokens
// get distinct messages.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid refresh payload")
		return
	}

	claims, err := util.ParseToken(h.JWTSecret, req.RefreshToken)
	if err != nil {
		if util.IsExpired(err) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Refresh token expired")
		} else {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid refresh token")
		}
		return
	}
	if claims.TokenType != util.TokenRefresh || claims.JTI == "" {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid token type")
		return
	}

	var record models.Token
	if err := h.DB.Where("jti = ?", claims.JTI).First(&record).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Refresh token revoked or invalid")
		return
	}
	if record.Revoked || record.ExpiresAt.Before(time.Now().UTC()) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Refresh token revoked or invalid")
		return
	}

	// rotate: revoke old jti, then issue a fresh pair
	if err := h.DB.Model(&record).Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to rotate token")
		return
	}

	access, refresh, err := h.issuePair(claims.UserID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to issue tokens")
		return
	}
	util.JSON(c, tokenPair(access, refresh))
}

// Logout revokes the presented refresh token. Best effort: a malformed
// token still yields ok so clients can always clear local state.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.JSON(c, gin.H{"ok": true})
		return
	}

	claims, err := util.ParseToken(h.JWTSecret, req.RefreshToken)
	if err == nil && claims.JTI != "" {
		_ = h.DB.Model(&models.Token{}).
			Where("jti = ?", claims.JTI).
			Update("revoked", true).Error
	}
	util.JSON(c, gin.H{"ok": true})
}

// ---------- recovery-keyword password reset ----------

type verifyKeywordReq struct {
	Email           string `json:"email" binding:"required,email"`
	RecoveryKeyword string `json:"recovery_keyword" binding:"required"`
}

// VerifyRecoveryKeyword checks the account's recovery keyword and hands out
// a single-use reset token persisted with an expiry. The response is shaped
// identically whether or not the account exists.
func (h *AuthHandler) VerifyRecoveryKeyword(c *gin.Context) {
	var req verifyKeywordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.DB.Where("LOWER(email) = ?", email).First(&user).Error
	if err != nil ||
		bcrypt.CompareHashAndPassword([]byte(user.RecoveryKeywordHash), []byte(strings.TrimSpace(req.RecoveryKeyword))) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid email or recovery keyword")
		return
	}

	token, err := randomToken()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create reset token")
		return
	}
	record := models.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(h.ResetTTL),
	}
	if err := h.DB.Create(&record).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save reset token")
		return
	}

	util.JSON(c, gin.H{"reset_token": token, "expires_at": record.ExpiresAt})
}

type resetPasswordReq struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=100"`
}

// ResetPassword consumes a reset token, updates the password hash and
// bulk-revokes every refresh token the user holds.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid payload")
		return
	}

	var record models.PasswordResetToken
	if err := h.DB.Where("token = ?", req.ResetToken).First(&record).Error; err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid or expired reset token")
		return
	}
	if record.ExpiresAt.Before(time.Now().UTC()) {
		_ = h.DB.Delete(&record).Error
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to hash password")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", record.UserID).
			Update("password_hash", string(hash)).Error; err != nil {
			return err
		}
		// a reset invalidates every outstanding session
		if err := tx.Model(&models.Token{}).
			Where("user_id = ?", record.UserID).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to reset password")
		return
	}

	util.JSON(c, gin.H{"message": "Password has been reset. Log in with your new password."})
}

// SweepExpiredResetTokens deletes reset tokens past their expiry. Called
// from the daily maintenance loop.
func SweepExpiredResetTokens(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.PasswordResetToken{}).Error
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
