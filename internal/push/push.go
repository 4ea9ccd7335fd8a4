// Package push is a thin client for the external push-messaging gateway.
// Delivery is best effort: failures are logged and never propagate to the
// caller.
package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

type Sender struct {
	DB         *gorm.DB
	GatewayURL string
	Client     *http.Client
}

func NewSender(db *gorm.DB, gatewayURL string) *Sender {
	return &Sender{
		DB:         db,
		GatewayURL: gatewayURL,
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type message struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// SendToUser pushes a notification to every active token of the user.
// Tokens the gateway rejects are deactivated; delivered tokens get their
// last_used_at bumped.
func (s *Sender) SendToUser(userID uint, title, body string, data map[string]string) {
	if s.GatewayURL == "" {
		return
	}

	var tokens []models.PushToken
	if err := s.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&tokens).Error; err != nil {
		logging.L.Warn().Err(err).Uint("user_id", userID).Msg("load push tokens failed")
		return
	}

	for i := range tokens {
		if err := s.deliver(message{To: tokens[i].Token, Title: title, Body: body, Data: data}); err != nil {
			logging.L.Warn().Err(err).Uint("user_id", userID).Msg("push delivery failed")
			s.deactivate(&tokens[i])
			continue
		}
		s.touch(&tokens[i])
	}
}

func (s *Sender) deliver(m message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return err
	}
	resp, err := s.Client.Post(s.GatewayURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	return nil
}

func (s *Sender) touch(t *models.PushToken) {
	_ = s.DB.Model(t).Update("last_used_at", time.Now().UTC()).Error
}

func (s *Sender) deactivate(t *models.PushToken) {
	_ = s.DB.Model(t).Update("is_active", false).Error
}
