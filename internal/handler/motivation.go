package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/motivation"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MotivationHandler struct {
	DB *gorm.DB
}

func NewMotivationHandler(db *gorm.DB) *MotivationHandler {
	return &MotivationHandler{DB: db}
}

// ---------- streak ----------

// Streak returns the user's current streak without advancing it.
func (h *MotivationHandler) Streak(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	streak, err := motivation.GetOrCreateStreak(h.DB, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load streak")
		return
	}
	util.JSON(c, streak)
}

// CheckStreak advances the streak for today. Safe to call repeatedly;
// only the first call of a day changes the counter.
func (h *MotivationHandler) CheckStreak(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	streak, err := motivation.CheckStreak(h.DB, user.ID, time.Now().UTC())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check streak")
		return
	}
	util.JSON(c, streak)
}

// ---------- goals ----------

// goalView decorates a goal with its computed progress.
type goalView struct {
	models.Goal
	Progress *float64 `json:"progress_percentage"`
}

func viewOf(g models.Goal) goalView {
	return goalView{Goal: g, Progress: g.ProgressPercentage()}
}

type goalReq struct {
	Kind        string     `json:"kind" binding:"required,oneof=streak spend_under log_n_days savings"`
	Title       string     `json:"title" binding:"required,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	TargetValue *float64   `json:"target_value"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *MotivationHandler) CreateGoal(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid goal payload")
		return
	}
	if req.TargetValue != nil && *req.TargetValue <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target_value must be positive")
		return
	}

	start := time.Now().UTC()
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	if req.EndDate != nil && req.EndDate.Before(start) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end_date must be after start_date")
		return
	}

	goal := models.Goal{
		UserID:      user.ID,
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		TargetValue: req.TargetValue,
		Status:      models.GoalActive,
		StartDate:   start,
		EndDate:     req.EndDate,
	}
	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create goal")
		return
	}
	util.Created(c, viewOf(goal))
}

// ListGoals returns the user's goals, active first. ?status= filters.
func (h *MotivationHandler) ListGoals(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	q := h.DB.Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		if status != models.GoalActive && status != models.GoalCompleted {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "status must be active or completed")
			return
		}
		q = q.Where("status = ?", status)
	}

	var goals []models.Goal
	if err := q.Order("status, created_at DESC").Find(&goals).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list goals")
		return
	}

	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, viewOf(g))
	}
	util.JSON(c, views)
}

func (h *MotivationHandler) loadGoal(c *gin.Context) (*models.Goal, bool) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid goal id")
		return nil, false
	}

	var goal models.Goal
	if err := h.DB.Where("user_id = ?", user.ID).First(&goal, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Goal not found")
		return nil, false
	}
	return &goal, true
}

func (h *MotivationHandler) GetGoal(c *gin.Context) {
	goal, ok := h.loadGoal(c)
	if !ok {
		return
	}
	util.JSON(c, viewOf(*goal))
}

type goalPatchReq struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	TargetValue *float64   `json:"target_value"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active completed"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *MotivationHandler) UpdateGoal(c *gin.Context) {
	goal, ok := h.loadGoal(c)
	if !ok {
		return
	}

	var req goalPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid goal payload")
		return
	}
	if req.TargetValue != nil && *req.TargetValue <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "target_value must be positive")
		return
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.TargetValue != nil {
		goal.TargetValue = req.TargetValue
	}
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if req.EndDate != nil {
		goal.EndDate = req.EndDate
	}
	if err := h.DB.Save(goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update goal")
		return
	}
	util.JSON(c, viewOf(*goal))
}

func (h *MotivationHandler) DeleteGoal(c *gin.Context) {
	goal, ok := h.loadGoal(c)
	if !ok {
		return
	}
	if err := h.DB.Delete(goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete goal")
		return
	}
	util.NoContent(c)
}

type addSavingsReq struct {
	Amount float64 `json:"amount" binding:"required"`
}

// AddSavings deposits toward a savings goal. Reaching the target completes
// the goal automatically.
func (h *MotivationHandler) AddSavings(c *gin.Context) {
	goal, ok := h.loadGoal(c)
	if !ok {
		return
	}
	if goal.Kind != models.GoalSavings {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Goal is not a savings goal")
		return
	}
	if goal.Status != models.GoalActive {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Goal is not active")
		return
	}

	var req addSavingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid payload")
		return
	}
	amount, err := util.NormalizeAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	goal.CurrentValue = util.Round2(goal.CurrentValue + amount)
	if goal.TargetValue != nil && goal.CurrentValue >= *goal.TargetValue {
		goal.Status = models.GoalCompleted
	}
	if err := h.DB.Save(goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update goal")
		return
	}
	util.JSON(c, viewOf(*goal))
}

// ---------- no-spend challenge ----------

const noSpendTitle = "No-spend challenge"

// NoSpendStatus reports the user's current run of days without
// discretionary spending, plus the challenge goal when one exists.
func (h *MotivationHandler) NoSpendStatus(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	now := time.Now().UTC()

	var goal models.Goal
	err := h.DB.Where("user_id = ? AND kind = ? AND title = ? AND status = ?",
		user.ID, models.GoalStreak, noSpendTitle, models.GoalActive).
		First(&goal).Error

	since := now.AddDate(0, 0, -90)
	var view *goalView
	if err == nil {
		since = goal.StartDate
	} else if err != gorm.ErrRecordNotFound {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load challenge")
		return
	}

	run, runErr := motivation.NoSpendRun(h.DB, user.ID, since, now)
	if runErr != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to compute run")
		return
	}

	if err == nil {
		goal.CurrentValue = float64(run)
		if goal.TargetValue != nil && goal.CurrentValue >= *goal.TargetValue {
			goal.Status = models.GoalCompleted
		}
		if saveErr := h.DB.Save(&goal).Error; saveErr != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update challenge")
			return
		}
		v := viewOf(goal)
		view = &v
	}

	util.JSON(c, gin.H{"current_run_days": run, "challenge": view})
}

type noSpendReq struct {
	TargetDays  int     `json:"target_days" binding:"required,min=1,max=365"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// StartNoSpend begins a no-spend challenge as a streak-kind goal. One
// active challenge at a time.
func (h *MotivationHandler) StartNoSpend(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req noSpendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid challenge payload")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Goal{}).
		Where("user_id = ? AND kind = ? AND title = ? AND status = ?",
			user.ID, models.GoalStreak, noSpendTitle, models.GoalActive).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check challenge")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "An active no-spend challenge already exists")
		return
	}

	target := float64(req.TargetDays)
	goal := models.Goal{
		UserID:      user.ID,
		Kind:        models.GoalStreak,
		Title:       noSpendTitle,
		Description: req.Description,
		TargetValue: &target,
		Status:      models.GoalActive,
		StartDate:   time.Now().UTC(),
	}
	if err := h.DB.Create(&goal).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create challenge")
		return
	}
	util.Created(c, viewOf(goal))
}
