package handler_test

import (
	"net/http"
	"testing"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSummaryExcessAlert(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	var mandatory, excess models.Category
	require.NoError(t, db.Where("is_default = ? AND expense_type = ?", true, models.ExpenseMandatory).
		First(&mandatory).Error)
	require.NoError(t, db.Where("is_default = ? AND expense_type = ?", true, models.ExpenseExcess).
		First(&excess).Error)

	w := doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type": "expense", "amount": 100, "category_id": mandatory.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type": "expense", "amount": 60, "category_id": excess.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/reports/summary?range=week", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)

	// 60 excess > 0.5 * 100 mandatory
	assert.Equal(t, true, body["excess_alert"])

	byType := body["expense_by_type"].(map[string]interface{})
	assert.Equal(t, 100.0, byType["mandatory"])
	assert.Equal(t, 60.0, byType["excess"])
}

func TestReportSummaryNoAlertWithoutMandatory(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	var excess models.Category
	require.NoError(t, db.Where("is_default = ? AND expense_type = ?", true, models.ExpenseExcess).
		First(&excess).Error)

	w := doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type": "expense", "amount": 999, "category_id": excess.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/reports/summary", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["excess_alert"])
}

func TestReportSummaryRejectsUnknownRange(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodGet, "/reports/summary?range=year", access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardDaysValidation(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	for _, path := range []string{"/dashboard/stats/0", "/dashboard/stats/366", "/dashboard/breakdown/abc"} {
		w := doJSON(t, r, http.MethodGet, path, access, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w := doJSON(t, r, http.MethodGet, "/dashboard/stats/30", access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
