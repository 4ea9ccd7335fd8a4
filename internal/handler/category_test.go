package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategoriesIncludesDefaults(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodGet, "/categories?type=expense", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Groceries")
}

func TestCreateCategoryDuplicate(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	payload := map[string]interface{}{
		"name": "Fishing gear",
		"type": "expense",
	}
	w := doJSON(t, r, http.MethodPost, "/categories", access, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	// falls back to neutral when no expense_type is given
	assert.Equal(t, "neutral", decode(t, w)["expense_type"])

	w = doJSON(t, r, http.MethodPost, "/categories", access, payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateIncomeCategoryRejectsExpenseType(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/categories", access, map[string]interface{}{
		"name":         "Side hustle",
		"type":         "income",
		"expense_type": "excess",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDefaultCategoriesAreReadOnly(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	var def models.Category
	require.NoError(t, db.Where("is_default = ?", true).First(&def).Error)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/categories/%d", def.ID), access,
		map[string]interface{}{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d", def.ID), access, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteCategorySoftDeletesByDefault(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/categories", access, map[string]interface{}{
		"name": "Shortlived",
		"type": "expense",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type":        "expense",
		"amount":      9.99,
		"category_id": id,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d", id), access, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// the row survives as soft-deleted so history keeps its label
	var cat models.Category
	require.NoError(t, db.First(&cat, id).Error)
	assert.True(t, cat.IsDeleted)

	// hidden from normal listing, visible with include_deleted
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/categories/%d", id), access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/categories?include_deleted=true", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Shortlived")
}

func TestHardDeleteCategoryOrphansEntries(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/categories", access, map[string]interface{}{
		"name": "Disposable",
		"type": "expense",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type":        "expense",
		"amount":      5,
		"category_id": id,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	entryID := int(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/categories/%d?hard=true", id), access, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	db.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	assert.Equal(t, int64(0), count)

	// the entry survives, uncategorized
	var entry models.Entry
	require.NoError(t, db.First(&entry, entryID).Error)
	assert.Nil(t, entry.CategoryID)
}
