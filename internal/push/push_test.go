package push

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/M-owl-8/ACT/internal/database"
	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSenderWithDB(t *testing.T, gatewayURL string) *Sender {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return NewSender(db, gatewayURL)
}

func addToken(t *testing.T, db *gorm.DB, userID uint, token string, active bool) *models.PushToken {
	t.Helper()
	row := models.PushToken{UserID: userID, Token: token, IsActive: active}
	require.NoError(t, db.Create(&row).Error)
	if !active {
		// GORM replaces a zero-valued field with its default:true tag on
		// insert, so inactive rows need an explicit update.
		require.NoError(t, db.Model(&row).Update("is_active", false).Error)
	}
	return &row
}

func TestSendToUserDeliversToActiveTokens(t *testing.T) {
	var got []message
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got = append(got, m)
	}))
	defer gateway.Close()

	s := newSenderWithDB(t, gateway.URL)
	addToken(t, s.DB, 1, "ExponentPushToken[aaa]", true)
	addToken(t, s.DB, 1, "ExponentPushToken[bbb]", false) // inactive, skipped
	addToken(t, s.DB, 2, "ExponentPushToken[ccc]", true)  // other user

	s.SendToUser(1, "Planned expense due today", "rent", map[string]string{"reminder_id": "5"})

	require.Len(t, got, 1)
	assert.Equal(t, "ExponentPushToken[aaa]", got[0].To)
	assert.Equal(t, "rent", got[0].Body)
	assert.Equal(t, "5", got[0].Data["reminder_id"])
}

func TestSendToUserDeactivatesRejectedTokens(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer gateway.Close()

	s := newSenderWithDB(t, gateway.URL)
	row := addToken(t, s.DB, 1, "ExponentPushToken[dead]", true)

	s.SendToUser(1, "title", "body", nil)

	var reloaded models.PushToken
	require.NoError(t, s.DB.First(&reloaded, row.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestSendToUserNoopWithoutGateway(t *testing.T) {
	s := newSenderWithDB(t, "")
	addToken(t, s.DB, 1, "ExponentPushToken[eee]", true)

	// must not panic or touch the rows
	s.SendToUser(1, "title", "body", nil)

	var reloaded models.PushToken
	require.NoError(t, s.DB.Where("user_id = ?", 1).First(&reloaded).Error)
	assert.True(t, reloaded.IsActive)
}
