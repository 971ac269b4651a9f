package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

// Day status labels the remaining budget: over when a target is exceeded,
// tight when less than 20% of the calorie target remains.
const (
	DayStatusNormal = "normal"
	DayStatusTight  = "tight"
	DayStatusOver   = "over"
)

const tightFraction = 0.20

type macroSummary struct {
	Consumed  float64 `json:"consumed"`
	Target    float64 `json:"target"`
	Remaining float64 `json:"remaining"`
}

type daySummary struct {
	Date     string       `json:"date"`
	Status   string       `json:"status"`
	Calories macroSummary `json:"calories"`
	Protein  macroSummary `json:"protein"`
	Carbs    macroSummary `json:"carbs"`
	Fat      macroSummary `json:"fat"`
}

func dayStatus(remainingCalories, calorieTarget float64) string {
	if remainingCalories < 0 {
		return DayStatusOver
	}
	if calorieTarget > 0 && remainingCalories < calorieTarget*tightFraction {
		return DayStatusTight
	}
	return DayStatusNormal
}

// GetDaySummary returns the day's consumed totals against the user's macro
// targets, with remaining budget and a status label.
func GetDaySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	start, end := dayBounds(date)

	var goal models.NutritionGoal
	if err := database.DB.Where("user_id = ?", userID).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"status":  "no_targets",
				"message": "Set daily macro targets to enable the summary.",
			})
			return
		}
		logger.Error("Failed to fetch goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	var entries []models.FoodEntry
	if err := database.DB.
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Find(&entries).Error; err != nil {
		logger.Error("Failed to fetch entries for summary", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	var calories, protein, carbs, fat float64
	for _, e := range entries {
		calories += e.Calories
		protein += e.Protein
		carbs += e.Carbs
		fat += e.Fat
	}

	summary := daySummary{
		Date:     start.Format("2006-01-02"),
		Status:   dayStatus(goal.CalorieTarget-calories, goal.CalorieTarget),
		Calories: macroSummary{calories, goal.CalorieTarget, goal.CalorieTarget - calories},
		Protein:  macroSummary{protein, goal.ProteinTarget, goal.ProteinTarget - protein},
		Carbs:    macroSummary{carbs, goal.CarbsTarget, goal.CarbsTarget - carbs},
		Fat:      macroSummary{fat, goal.FatTarget, goal.FatTarget - fat},
	}

	writeJSON(w, http.StatusOK, summary)
}
