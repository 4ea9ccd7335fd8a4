package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetEntry(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	var category models.Category
	require.NoError(t, db.Where("type = ? AND is_default = ?", models.TypeExpense, true).
		First(&category).Error)

	w := doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type":        "expense",
		"amount":      12.345,
		"category_id": category.ID,
		"note":        "lunch",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, 12.35, created["amount"]) // rounded to cents
	assert.Equal(t, "USD", created["currency"])

	id := int(created["id"].(float64))
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/entries/%d", id), access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lunch", decode(t, w)["note"])
}

func TestCreateEntryRejectsTypeMismatch(t *testing.T) {
	r, db := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	var income models.Category
	require.NoError(t, db.Where("type = ? AND is_default = ?", models.TypeIncome, true).
		First(&income).Error)

	w := doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type":        "expense",
		"amount":      10,
		"category_id": income.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEntryRejectsBadAmounts(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	for _, amount := range []float64{0, -10, 2_000_000_000} {
		w := doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
			"type":   "expense",
			"amount": amount,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "amount %v", amount)
	}
}

func TestEntriesAreUserScoped(t *testing.T) {
	r, _ := newTestApp(t)
	alice, _ := registerUser(t, r, "alice@example.com")
	bob, _ := registerUser(t, r, "bob@example.com")

	w := doJSON(t, r, http.MethodPost, "/entries", alice, map[string]interface{}{
		"type":   "expense",
		"amount": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := int(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/entries/%d", id), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/entries/%d", id), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryTotals(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	for _, e := range []map[string]interface{}{
		{"type": "income", "amount": 1000},
		{"type": "expense", "amount": 0.1},
		{"type": "expense", "amount": 0.2},
	} {
		w := doJSON(t, r, http.MethodPost, "/entries", access, e)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/entries/stats/totals", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 1000.0, body["income"])
	assert.Equal(t, 0.3, body["expense"]) // exact despite float inputs
	assert.Equal(t, 999.7, body["balance"])
}

func TestEntryMutationUpdatesGoal(t *testing.T) {
	r, _ := newTestApp(t)
	access, _ := registerUser(t, r, "user@example.com")

	w := doJSON(t, r, http.MethodPost, "/motivation/goals", access, map[string]interface{}{
		"kind":         "spend_under",
		"title":        "keep fun money under 200",
		"target_value": 200,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	goalID := int(decode(t, w)["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/entries", access, map[string]interface{}{
		"type":   "expense",
		"amount": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// the synchronous test engine has already recomputed
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/motivation/goals/%d", goalID), access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, 80.0, body["current_value"])
	assert.Equal(t, 40.0, body["progress_percentage"])
}
