package handler_test

import (
	"net/http"
	"testing"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstUserIsAdmin(t *testing.T) {
	r, db := newTestApp(t)

	registerUser(t, r, "first@example.com")
	registerUser(t, r, "second@example.com")

	var first, second models.User
	require.NoError(t, db.Where("email = ?", "first@example.com").First(&first).Error)
	require.NoError(t, db.Where("email = ?", "second@example.com").First(&second).Error)
	assert.True(t, first.IsAdmin)
	assert.False(t, second.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestApp(t)
	registerUser(t, r, "taken@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":            "Taken@Example.com", // case-insensitive match
		"password":         "another-password-1",
		"recovery_keyword": "keyword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	r, _ := newTestApp(t)
	registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code)
	access := decode(t, w)["access_token"].(string)

	w = doJSON(t, r, http.MethodGet, "/users/me", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", decode(t, w)["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newTestApp(t)
	registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "wrong-password-123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	r, _ := newTestApp(t)
	_, refresh := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, w.Code)
	newRefresh := decode(t, w)["refresh_token"].(string)
	require.NotEqual(t, refresh, newRefresh)

	// the old token was revoked by the rotation
	w = doJSON(t, r, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// the new one works
	w = doJSON(t, r, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": newRefresh,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": access,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	r, _ := newTestApp(t)
	_, refresh := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/verify-recovery-keyword", "", map[string]interface{}{
		"email":            "user@example.com",
		"recovery_keyword": "blue-heron",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resetToken := decode(t, w)["reset_token"].(string)
	require.NotEmpty(t, resetToken)

	w = doJSON(t, r, http.MethodPost, "/auth/reset-password", "", map[string]interface{}{
		"reset_token":  resetToken,
		"new_password": "brand-new-password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// old refresh tokens are revoked by the reset
	w = doJSON(t, r, http.MethodPost, "/auth/refresh", "", map[string]interface{}{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// old password no longer works, the new one does
	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email":    "user@example.com",
		"password": "brand-new-password",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// a reset token is single use
	w = doJSON(t, r, http.MethodPost, "/auth/reset-password", "", map[string]interface{}{
		"reset_token":  resetToken,
		"new_password": "yet-another-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyRecoveryKeywordWrongKeyword(t *testing.T) {
	r, _ := newTestApp(t)
	registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/auth/verify-recovery-keyword", "", map[string]interface{}{
		"email":            "user@example.com",
		"recovery_keyword": "wrong-keyword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestApp(t)

	w := doJSON(t, r, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/entries", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
