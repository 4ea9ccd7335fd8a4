package models

import "time"

// Reading statuses.
const (
	BookNotStarted = "not_started"
	BookInProgress = "in_progress"
	BookDone       = "done"
)

// Book is a library catalog entry, possibly one of several per-language
// variants of the same title.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Author        *string   `gorm:"size:255" json:"author"`
	CoverURL      *string   `gorm:"size:500" json:"cover_url"`
	Summary       *string   `gorm:"type:text" json:"summary"`
	Genre         *string   `gorm:"size:64" json:"genre"`
	ISBN          *string   `gorm:"size:20;index" json:"isbn"`
	TotalPages    *int      `json:"total_pages"`
	TotalChapters *int      `json:"total_chapters"`
	IsUserCreated bool      `gorm:"not null;default:false" json:"is_user_created"`
	CreatedBy     *uint     `gorm:"index" json:"created_by"`
	LanguageCode  string    `gorm:"size:8;index;not null;default:en" json:"language_code"`
	FilePath      *string   `gorm:"size:500;index" json:"file_path"`
	FileSize      *int64    `json:"file_size"`
	OrderIndex    int       `gorm:"index;not null;default:0" json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserBookProgress tracks one user's aggregate progress through one book.
type UserBookProgress struct {
	UserID           uint       `gorm:"primaryKey" json:"user_id"`
	BookID           uint       `gorm:"primaryKey" json:"book_id"`
	Status           string     `gorm:"size:16;not null;default:not_started" json:"status"`
	ProgressPercent  int        `gorm:"not null;default:0" json:"progress_percent"` // 0-100
	PagesRead        int        `gorm:"not null;default:0" json:"pages_read"`
	ChaptersRead     int        `gorm:"not null;default:0" json:"chapters_read"`
	TotalTimeMinutes int        `gorm:"not null;default:0" json:"total_time_minutes"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ReadingSession is a single logged sitting with a book.
type ReadingSession struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	BookID       uint       `gorm:"index;not null" json:"book_id"`
	PagesRead    int        `gorm:"not null;default:0" json:"pages_read"`
	ChaptersRead int        `gorm:"not null;default:0" json:"chapters_read"`
	TimeMinutes  int        `gorm:"not null" json:"time_minutes"`
	SessionType  string     `gorm:"size:16;not null;default:manual" json:"session_type"` // manual / timer
	Notes        *string    `gorm:"type:text" json:"notes"`
	StartedAt    *time.Time `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
