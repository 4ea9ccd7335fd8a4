package push

import (
	"context"
	"fmt"
	"time"

	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/models"
)

// RunReminderLoop wakes hourly and notifies each user once per reminder on
// its due date. Sent reminder ids are tracked in memory, so a restart may
// repeat a notification; that is acceptable for a best-effort channel.
func (s *Sender) RunReminderLoop(ctx context.Context) {
	sent := map[uint]string{} // reminder id -> date notified

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		s.notifyDue(sent)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sender) notifyDue(sent map[uint]string) {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var due []models.Reminder
	err := s.DB.
		Where("is_completed = ? AND reminder_date >= ? AND reminder_date < ?",
			false, dayStart, dayStart.Add(24*time.Hour)).
		Find(&due).Error
	if err != nil {
		logging.L.Warn().Err(err).Msg("reminder notify query failed")
		return
	}

	for _, r := range due {
		if sent[r.ID] == today {
			continue
		}
		body := r.Title
		if r.Amount != nil {
			body = fmt.Sprintf("%s - %.2f %s", r.Title, *r.Amount, r.Currency)
		}
		s.SendToUser(r.UserID, "Planned expense due today", body, map[string]string{
			"reminder_id": fmt.Sprintf("%d", r.ID),
		})
		sent[r.ID] = today
	}

	// drop stale dedupe entries
	for id, day := range sent {
		if day != today {
			delete(sent, id)
		}
	}
}
