package handler

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/M-owl-8/ACT/internal/logging"
	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BookHandler struct {
	DB *gorm.DB
}

func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{DB: db}
}

// List returns the catalog in the user's language by default;
// ?language= overrides and ?all_languages=true disables the filter.
func (h *BookHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	q := h.DB.Model(&models.Book{})
	if c.Query("all_languages") != "true" {
		language := c.DefaultQuery("language", user.Language)
		q = q.Where("language_code = ?", language)
	}

	var books []models.Book
	if err := q.Order("order_index, id").Find(&books).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list books")
		return
	}
	util.JSON(c, books)
}

// Get returns one book along with the caller's progress, if any.
func (h *BookHandler) Get(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book id")
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Book not found")
		return
	}

	var progress *models.UserBookProgress
	var row models.UserBookProgress
	if err := h.DB.Where("user_id = ? AND book_id = ?", user.ID, book.ID).
		First(&row).Error; err == nil {
		progress = &row
	}

	util.JSON(c, gin.H{"book": book, "progress": progress})
}

type bookReq struct {
	Title         string  `json:"title" binding:"required,min=1,max=255"`
	Author        *string `json:"author" binding:"omitempty,max=255"`
	CoverURL      *string `json:"cover_url" binding:"omitempty,max=500"`
	Summary       *string `json:"summary"`
	Genre         *string `json:"genre" binding:"omitempty,max=64"`
	ISBN          *string `json:"isbn" binding:"omitempty,max=20"`
	TotalPages    *int    `json:"total_pages" binding:"omitempty,min=1"`
	TotalChapters *int    `json:"total_chapters" binding:"omitempty,min=1"`
	LanguageCode  string  `json:"language_code" binding:"omitempty,oneof=en ru uz"`
}

// Create adds a user-curated book.
func (h *BookHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book payload")
		return
	}

	language := req.LanguageCode
	if language == "" {
		language = user.Language
	}

	book := models.Book{
		Title:         req.Title,
		Author:        req.Author,
		CoverURL:      req.CoverURL,
		Summary:       req.Summary,
		Genre:         req.Genre,
		ISBN:          req.ISBN,
		TotalPages:    req.TotalPages,
		TotalChapters: req.TotalChapters,
		IsUserCreated: true,
		CreatedBy:     &user.ID,
		LanguageCode:  language,
	}
	if err := h.DB.Create(&book).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create book")
		return
	}
	util.Created(c, book)
}

// Delete removes a book with its progress rows, sessions and any stored
// file artifact. Owners may delete their own user-created books; admins
// may delete anything.
func (h *BookHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book id")
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Book not found")
		return
	}

	ownsIt := book.IsUserCreated && book.CreatedBy != nil && *book.CreatedBy == user.ID
	if !ownsIt && !user.IsAdmin {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Not allowed to delete this book")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", book.ID).Delete(&models.ReadingSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&models.UserBookProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete book")
		return
	}

	if book.FilePath != nil {
		if err := os.Remove(*book.FilePath); err != nil && !os.IsNotExist(err) {
			logging.L.Warn().Err(err).Str("path", *book.FilePath).Msg("book file cleanup failed")
		}
	}
	util.NoContent(c)
}

// ---------- reading sessions ----------

type sessionReq struct {
	PagesRead    int     `json:"pages_read" binding:"min=0"`
	ChaptersRead int     `json:"chapters_read" binding:"min=0"`
	TimeMinutes  int     `json:"time_minutes" binding:"required,min=1,max=1440"`
	SessionType  string  `json:"session_type" binding:"omitempty,oneof=manual timer"`
	Notes        *string `json:"notes"`
}

// CreateSession logs a reading sitting and folds it into the aggregate
// progress row. Percent derives from total_pages when the book has them,
// else total_chapters; hitting 100 flips the status to done.
func (h *BookHandler) CreateSession(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book id")
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Book not found")
		return
	}

	var req sessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid session payload")
		return
	}
	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = "manual"
	}

	now := time.Now().UTC()
	session := models.ReadingSession{
		UserID:       user.ID,
		BookID:       book.ID,
		PagesRead:    req.PagesRead,
		ChaptersRead: req.ChaptersRead,
		TimeMinutes:  req.TimeMinutes,
		SessionType:  sessionType,
		Notes:        req.Notes,
	}

	var progress models.UserBookProgress
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND book_id = ?", user.ID, book.ID).
			First(&progress).Error
		if err == gorm.ErrRecordNotFound {
			progress = models.UserBookProgress{
				UserID:    user.ID,
				BookID:    book.ID,
				Status:    models.BookInProgress,
				StartedAt: &now,
			}
		} else if err != nil {
			return err
		}

		progress.PagesRead += req.PagesRead
		progress.ChaptersRead += req.ChaptersRead
		progress.TotalTimeMinutes += req.TimeMinutes
		if progress.Status == models.BookNotStarted {
			progress.Status = models.BookInProgress
			progress.StartedAt = &now
		}
		progress.ProgressPercent = percentFor(&book, &progress)
		if progress.ProgressPercent >= 100 && progress.Status != models.BookDone {
			progress.Status = models.BookDone
			progress.CompletedAt = &now
		}
		return tx.Save(&progress).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to record session")
		return
	}

	util.Created(c, gin.H{"session": session, "progress": progress})
}

func percentFor(book *models.Book, p *models.UserBookProgress) int {
	var percent int
	switch {
	case book.TotalPages != nil && *book.TotalPages > 0:
		percent = p.PagesRead * 100 / *book.TotalPages
	case book.TotalChapters != nil && *book.TotalChapters > 0:
		percent = p.ChaptersRead * 100 / *book.TotalChapters
	default:
		return p.ProgressPercent
	}
	if percent > 100 {
		percent = 100
	}
	return percent
}

// ListSessions returns the caller's sessions for a book, newest first.
func (h *BookHandler) ListSessions(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book id")
		return
	}

	var sessions []models.ReadingSession
	if err := h.DB.Where("user_id = ? AND book_id = ?", user.ID, id).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list sessions")
		return
	}
	util.JSON(c, sessions)
}

type progressReq struct {
	Status          string `json:"status" binding:"required,oneof=not_started in_progress done"`
	ProgressPercent *int   `json:"progress_percent" binding:"omitempty,min=0,max=100"`
}

// SetProgress manually overrides reading status.
func (h *BookHandler) SetProgress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid book id")
		return
	}

	var book models.Book
	if err := h.DB.First(&book, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Book not found")
		return
	}

	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid progress payload")
		return
	}

	now := time.Now().UTC()
	var progress models.UserBookProgress
	err = h.DB.Where("user_id = ? AND book_id = ?", user.ID, book.ID).
		First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = models.UserBookProgress{UserID: user.ID, BookID: book.ID}
	} else if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load progress")
		return
	}

	progress.Status = req.Status
	if req.ProgressPercent != nil {
		progress.ProgressPercent = *req.ProgressPercent
	}
	switch req.Status {
	case models.BookInProgress:
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
		progress.CompletedAt = nil
	case models.BookDone:
		progress.ProgressPercent = 100
		if progress.StartedAt == nil {
			progress.StartedAt = &now
		}
		progress.CompletedAt = &now
	case models.BookNotStarted:
		progress.ProgressPercent = 0
		progress.StartedAt = nil
		progress.CompletedAt = nil
	}

	if err := h.DB.Save(&progress).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save progress")
		return
	}
	util.JSON(c, progress)
}

// StatsOverview summarizes the caller's reading: book counts by status and
// lifetime pages/minutes.
func (h *BookHandler) StatsOverview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var rows []models.UserBookProgress
	if err := h.DB.Where("user_id = ?", user.ID).Find(&rows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load progress")
		return
	}

	var done, inProgress, pages, minutes int
	for _, row := range rows {
		switch row.Status {
		case models.BookDone:
			done++
		case models.BookInProgress:
			inProgress++
		}
		pages += row.PagesRead
		minutes += row.TotalTimeMinutes
	}

	var sessionCount int64
	h.DB.Model(&models.ReadingSession{}).Where("user_id = ?", user.ID).Count(&sessionCount)

	util.JSON(c, gin.H{
		"books_done":         done,
		"books_in_progress":  inProgress,
		"total_pages_read":   pages,
		"total_time_minutes": minutes,
		"session_count":      sessionCount,
	})
}
