package controllers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

type SetGoalRequest struct {
	CalorieTarget float64 `json:"calorie_target"`
	ProteinTarget float64 `json:"protein_target"`
	CarbsTarget   float64 `json:"carbs_target"`
	FatTarget     float64 `json:"fat_target"`
}

func GetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var goal models.NutritionGoal
	if err := database.DB.Where("user_id = ?", userID).First(&goal).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			writeError(w, http.StatusNotFound, "No targets set")
			return
		}
		logger.Error("Failed to fetch goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch targets")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

// SetGoal upserts the user's daily macro targets.
func SetGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SetGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CalorieTarget < 0 || req.ProteinTarget < 0 || req.CarbsTarget < 0 || req.FatTarget < 0 {
		writeError(w, http.StatusBadRequest, "Targets must be non-negative")
		return
	}

	goal := models.NutritionGoal{
		UserID:        userID,
		CalorieTarget: req.CalorieTarget,
		ProteinTarget: req.ProteinTarget,
		CarbsTarget:   req.CarbsTarget,
		FatTarget:     req.FatTarget,
	}

	if err := database.DB.Where("user_id = ?", userID).Assign(goal).FirstOrCreate(&goal).Error; err != nil {
		logger.Error("Failed to save goal", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save targets")
		return
	}

	logger.Info("Macro targets set", "user_id", userID, "calories", req.CalorieTarget)
	writeJSON(w, http.StatusOK, goal)
}
