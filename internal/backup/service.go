package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

// ErrUnsupported is returned when the configured database backend has no
// on-disk file to snapshot (PostgreSQL).
var ErrUnsupported = fmt.Errorf("file-copy backup requires the sqlite backend")

// Service snapshots the SQLite database file and records metadata rows for
// each snapshot. Restore copies a snapshot back over the live file after
// saving a pre-restore safety copy.
type Service struct {
	DB       *gorm.DB
	DBPath   string // empty when running on postgres
	Dir      string
	KeepDays int
}

func NewService(db *gorm.DB, dbPath, dir string, keepDays int) *Service {
	if keepDays <= 0 {
		keepDays = 30
	}
	return &Service{DB: db, DBPath: dbPath, Dir: dir, KeepDays: keepDays}
}

// Supported reports whether backups can run against the current backend.
func (s *Service) Supported() bool {
	return s.DBPath != ""
}

// Create copies the database file to a timestamped path and records a
// metadata row. backupType is "daily" or "manual".
func (s *Service) Create(backupType string, userID *uint) (*models.DatabaseBackup, error) {
	if !s.Supported() {
		return nil, ErrUnsupported
	}
	if _, err := os.Stat(s.DBPath); err != nil {
		return nil, fmt.Errorf("database file: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	filename := fmt.Sprintf("act_backup_%s_%s.db", backupType, time.Now().UTC().Format("20060102_150405"))
	dest := filepath.Join(s.Dir, filename)

	size, err := copyFile(s.DBPath, dest)
	if err != nil {
		return nil, fmt.Errorf("copy database file: %w", err)
	}

	record := models.DatabaseBackup{
		Filename:        filename,
		FilePath:        dest,
		FileSize:        size,
		BackupType:      backupType,
		CreatedByUserID: userID,
	}
	if err := s.DB.Create(&record).Error; err != nil {
		_ = os.Remove(dest)
		return nil, fmt.Errorf("save backup record: %w", err)
	}

	logging.L.Info().Str("file", filename).Int64("size", size).Msg("backup created")
	return &record, nil
}

// List returns the most recent backups, newest first.
func (s *Service) List(limit int) ([]models.DatabaseBackup, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	backups := make([]models.DatabaseBackup, 0, limit)
	err := s.DB.Order("created_at DESC").Limit(limit).Find(&backups).Error
	return backups, err
}

// Cleanup deletes snapshot files and metadata rows older than keepDays.
func (s *Service) Cleanup(keepDays int) (int, error) {
	if keepDays <= 0 {
		keepDays = s.KeepDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)

	var old []models.DatabaseBackup
	if err := s.DB.Where("created_at < ?", cutoff).Find(&old).Error; err != nil {
		return 0, err
	}

	deleted := 0
	for i := range old {
		if err := os.Remove(old[i].FilePath); err != nil && !os.IsNotExist(err) {
			logging.L.Warn().Err(err).Str("file", old[i].Filename).Msg("remove backup file failed")
		}
		if err := s.DB.Delete(&old[i]).Error; err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// Restore copies the snapshot identified by id back over the live database
// file, saving a pre-restore copy of the current file first.
func (s *Service) Restore(id uint) (*models.DatabaseBackup, error) {
	if !s.Supported() {
		return nil, ErrUnsupported
	}

	var record models.DatabaseBackup
	if err := s.DB.First(&record, id).Error; err != nil {
		return nil, err
	}
	if _, err := os.Stat(record.FilePath); err != nil {
		return nil, fmt.Errorf("backup file: %w", err)
	}

	safety := filepath.Join(s.Dir, fmt.Sprintf("pre_restore_%s.db", time.Now().UTC().Format("20060102_150405")))
	if _, err := copyFile(s.DBPath, safety); err != nil {
		return nil, fmt.Errorf("save pre-restore copy: %w", err)
	}

	if _, err := copyFile(record.FilePath, s.DBPath); err != nil {
		return nil, fmt.Errorf("restore database file: %w", err)
	}

	logging.L.Info().Str("file", record.Filename).Str("safety_copy", safety).Msg("database restored from backup")
	return &record, nil
}

// RunDaily backs up and cleans up every 24 hours until ctx is cancelled,
// retrying after an hour when a run fails. sweep, if non-nil, runs after a
// successful backup (expired reset-token cleanup).
func (s *Service) RunDaily(ctx context.Context, sweep func() error) {
	if !s.Supported() {
		logging.L.Info().Msg("postgres backend, daily file backup disabled")
		return
	}

	const (
		interval = 24 * time.Hour
		retry    = time.Hour
	)

	for {
		wait := interval
		if _, err := s.Create(models.BackupDaily, nil); err != nil {
			logging.L.Error().Err(err).Msg("daily backup failed")
			wait = retry
		} else {
			if _, err := s.Cleanup(s.KeepDays); err != nil {
				logging.L.Warn().Err(err).Msg("backup cleanup failed")
			}
			if sweep != nil {
				if err := sweep(); err != nil {
					logging.L.Warn().Err(err).Msg("maintenance sweep failed")
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return n, nil
}
