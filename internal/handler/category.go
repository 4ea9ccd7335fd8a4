package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// visibleScope limits a query to categories the user can see: their own
// plus the global defaults, deleted ones excluded.
func visibleScope(db *gorm.DB, userID uint) *gorm.DB {
	return db.Where("(user_id = ? OR user_id IS NULL)", userID).
		Where("is_deleted = ?", false)
}

// List returns the user's categories plus the global defaults. Supports
// ?type=income|expense, ?expense_type=mandatory|neutral|excess and
// ?include_deleted=true filters.
func (h *CategoryHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var q *gorm.DB
	if c.Query("include_deleted") == "true" {
		q = h.DB.Model(&models.Category{}).
			Where("(user_id = ? OR user_id IS NULL)", user.ID)
	} else {
		q = visibleScope(h.DB.Model(&models.Category{}), user.ID)
	}
	if t := c.Query("type"); t != "" {
		if t != models.TypeIncome && t != models.TypeExpense {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
			return
		}
		q = q.Where("type = ?", t)
	}
	if et := c.Query("expense_type"); et != "" {
		switch et {
		case models.ExpenseMandatory, models.ExpenseNeutral, models.ExpenseExcess:
			q = q.Where("expense_type = ?", et)
		default:
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid expense_type")
			return
		}
	}

	var categories []models.Category
	if err := q.Order("is_default DESC, name").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list categories")
		return
	}
	util.JSON(c, categories)
}

// Get returns one visible category by id.
func (h *CategoryHandler) Get(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category id")
		return
	}

	var category models.Category
	if err := visibleScope(h.DB, user.ID).First(&category, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Category not found")
		return
	}
	util.JSON(c, category)
}

type categoryReq struct {
	Name        string  `json:"name" binding:"required,min=1,max=50"`
	Type        string  `json:"type" binding:"required,oneof=income expense"`
	ExpenseType *string `json:"expense_type" binding:"omitempty,oneof=mandatory neutral excess"`
	Color       *string `json:"color" binding:"omitempty,len=7"`
	Icon        *string `json:"icon" binding:"omitempty,max=10"`
}

// Create adds a user category. Duplicate (name, type) among visible
// categories is a conflict; expense_type only applies to expenses.
func (h *CategoryHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if req.Type == models.TypeIncome && req.ExpenseType != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "expense_type applies to expense categories only")
		return
	}

	var count int64
	if err := visibleScope(h.DB.Model(&models.Category{}), user.ID).
		Where("LOWER(name) = ? AND type = ?", strings.ToLower(name), req.Type).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check category")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "Category with this name already exists")
		return
	}

	category := models.Category{
		UserID:      &user.ID,
		Name:        name,
		Type:        req.Type,
		ExpenseType: req.ExpenseType,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	if category.Type == models.TypeExpense && category.ExpenseType == nil {
		neutral := models.ExpenseNeutral
		category.ExpenseType = &neutral
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create category")
		return
	}
	util.Created(c, category)
}

type categoryPatchReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=50"`
	ExpenseType *string `json:"expense_type" binding:"omitempty,oneof=mandatory neutral excess"`
	Color       *string `json:"color" binding:"omitempty,len=7"`
	Icon        *string `json:"icon" binding:"omitempty,max=10"`
}

// Update patches a user-owned category. Global defaults are read-only.
func (h *CategoryHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category id")
		return
	}

	var category models.Category
	if err := visibleScope(h.DB, user.ID).First(&category, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Category not found")
		return
	}
	if category.UserID == nil {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Default categories cannot be modified")
		return
	}

	var req categoryPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category payload")
		return
	}
	if req.ExpenseType != nil && category.Type == models.TypeIncome {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "expense_type applies to expense categories only")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		var count int64
		if err := visibleScope(h.DB.Model(&models.Category{}), user.ID).
			Where("LOWER(name) = ? AND type = ? AND id <> ?", strings.ToLower(name), category.Type, category.ID).
			Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to check category")
			return
		}
		if count > 0 {
			util.Error(c, http.StatusConflict, util.CodeConflict, "Category with this name already exists")
			return
		}
		category.Name = name
	}
	if req.ExpenseType != nil {
		category.ExpenseType = req.ExpenseType
	}
	if req.Color != nil {
		category.Color = req.Color
	}
	if req.Icon != nil {
		category.Icon = req.Icon
	}
	if err := h.DB.Save(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update category")
		return
	}
	util.JSON(c, category)
}

// Delete soft-deletes a user-owned category so entry history keeps its
// labels. ?hard=true removes the row instead; referencing entries fall back
// to uncategorized through the SET NULL constraint.
func (h *CategoryHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category id")
		return
	}

	var category models.Category
	if err := visibleScope(h.DB, user.ID).First(&category, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Category not found")
		return
	}
	if category.UserID == nil {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "Default categories cannot be deleted")
		return
	}

	if c.Query("hard") == "true" {
		err = h.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Entry{}).
				Where("category_id = ?", category.ID).
				Update("category_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
	} else {
		err = h.DB.Model(&category).Update("is_deleted", true).Error
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete category")
		return
	}
	util.NoContent(c)
}
