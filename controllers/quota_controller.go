package controllers

import (
	"net/http"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

// GetQuota returns the quota banner payload: the user's plan and per-metric
// used/limit/remaining.
func GetQuota(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	plan := services.PlanFor(database.DB, userID)
	summary, err := services.UsageSummary(database.DB, userID)
	if err != nil {
		logger.Error("Failed to compute usage summary", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch quota")
		return
	}

	type metricPayload struct {
		Used      int `json:"used"`
		Limit     int `json:"limit"`
		Remaining int `json:"remaining"`
	}
	metrics := make(map[string]metricPayload, len(summary))
	for metric, d := range summary {
		metrics[metric] = metricPayload{Used: d.Used, Limit: d.Limit, Remaining: d.Remaining()}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plan":    plan,
		"limits":  services.LimitsFor(plan),
		"metrics": metrics,
	})
}
