package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/M-owl-8/ACT/internal/backup"
	"github.com/M-owl-8/ACT/internal/config"
	"github.com/M-owl-8/ACT/internal/database"
	"github.com/M-owl-8/ACT/internal/motivation"
	"github.com/M-owl-8/ACT/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "handler-test-secret"

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDefaults(db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:             testJWTSecret,
			AccessExpireMin:    15,
			RefreshExpireDays:  14,
			ResetTokenTTLHours: 1,
		},
	}
	// engine without Start processes events synchronously
	engine := motivation.NewEngine(db)
	backupSvc := backup.NewService(db, "", t.TempDir(), 30)

	return router.New(cfg, db, engine, backupSvc), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser signs an account up through the API and returns its tokens.
func registerUser(t *testing.T, r *gin.Engine, email string) (access, refresh string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":            email,
		"password":         "correct-horse-battery",
		"recovery_keyword": "blue-heron",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	return body["access_token"].(string), body["refresh_token"].(string)
}
