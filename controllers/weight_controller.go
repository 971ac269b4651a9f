package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/extractor"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

type CreateWeightRequest struct {
	WeightKg   float64    `json:"weight_kg"`
	MeasuredAt *time.Time `json:"measured_at"`
	Note       string     `json:"note"`
}

func CreateWeight(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WeightKg <= 0 {
		writeError(w, http.StatusBadRequest, "weight_kg must be positive")
		return
	}

	measuredAt := time.Now()
	if req.MeasuredAt != nil {
		measuredAt = *req.MeasuredAt
	}

	entry := models.WeightEntry{
		UserID:     userID,
		WeightKg:   req.WeightKg,
		MeasuredAt: measuredAt,
		Note:       req.Note,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		logger.Error("Failed to create weight entry", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save weight")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// historyWindow caps a requested day range by the plan's history limit.
func historyWindow(db *gorm.DB, userID uint, requested int) int {
	if requested <= 0 {
		requested = 90
	}
	limits := services.LimitsFor(services.PlanFor(db, userID))
	if limits.HistoryDays != services.Unlimited && requested > limits.HistoryDays {
		return limits.HistoryDays
	}
	return requested
}

func ListWeights(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	days = historyWindow(database.DB, userID, days)
	since := time.Now().AddDate(0, 0, -days)

	var entries []models.WeightEntry
	if err := database.DB.Where("user_id = ? AND measured_at >= ?", userID, since).
		Order("measured_at desc").Find(&entries).Error; err != nil {
		logger.Error("Failed to fetch weights", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weights")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func DeleteWeight(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entryID, err := parseUintParam(r, "entry_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.WeightEntry{})
	if result.Error != nil {
		logger.Error("Failed to delete weight entry", "error", result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to delete weight")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Weight entry not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Weight entry deleted"})
}

type trendPoint struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight_kg"`
	Average  float64 `json:"average"`
}

// GetWeightTrend returns chronological weigh-ins with a centered moving
// average and an overall kg/week slope. Fewer than two points yields an
// empty trend.
func GetWeightTrend(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	days = historyWindow(database.DB, userID, days)
	window, _ := strconv.Atoi(r.URL.Query().Get("window"))
	if window <= 0 {
		window = 7
	}
	since := time.Now().AddDate(0, 0, -days)

	var entries []models.WeightEntry
	if err := database.DB.Where("user_id = ? AND measured_at >= ?", userID, since).
		Order("measured_at asc").Find(&entries).Error; err != nil {
		logger.Error("Failed to fetch weights for trend", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute trend")
		return
	}

	if len(entries) < 2 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"points":        []trendPoint{},
			"slope_kg_week": 0.0,
		})
		return
	}

	weights := make([]float64, len(entries))
	dayOffsets := make([]float64, len(entries))
	first := entries[0].MeasuredAt
	for i, e := range entries {
		weights[i] = e.WeightKg
		dayOffsets[i] = e.MeasuredAt.Sub(first).Hours() / 24
	}

	averages := movingAverage(weights, window)
	points := make([]trendPoint, len(entries))
	for i, e := range entries {
		points[i] = trendPoint{
			Date:     e.MeasuredAt.Format("2006-01-02"),
			WeightKg: e.WeightKg,
			Average:  averages[i],
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points":        points,
		"slope_kg_week": slopePerWeek(dayOffsets, weights),
	})
}

// movingAverage computes a centered moving average; the window shrinks near
// the edges instead of padding.
func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	half := window / 2
	for i := range values {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(values)-1 {
			hi = len(values) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// slopePerWeek fits a least-squares line over (day offset, weight) pairs and
// returns its slope scaled to kilograms per week.
func slopePerWeek(days, weights []float64) float64 {
	n := float64(len(days))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := range days {
		sumX += days[i]
		sumY += weights[i]
		sumXY += days[i] * weights[i]
		sumXX += days[i] * days[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	perDay := (n*sumXY - sumX*sumY) / denom
	return perDay * 7
}

// ImportWeights accepts a scale-app export PDF and bulk-imports the weigh-ins
// found in it. An existing entry on the same date is overwritten.
func ImportWeights(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "weigh-in-*.pdf")
	if err != nil {
		logger.Error("Failed to create temp file", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		logger.Error("Failed to write upload", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process upload")
		return
	}
	tmp.Close()

	weighIns, skipped, err := extractor.ExtractWeighIns(tmpPath)
	if err != nil {
		logger.Warn("Failed to extract weigh-ins", "file", filepath.Base(tmpPath), "error", err)
		writeError(w, http.StatusBadRequest, "Could not read PDF")
		return
	}

	imported := 0
	for _, wi := range weighIns {
		start := time.Date(wi.Date.Year(), wi.Date.Month(), wi.Date.Day(), 0, 0, 0, 0, time.UTC)
		end := start.Add(24 * time.Hour)

		var existing models.WeightEntry
		err := database.DB.Where("user_id = ? AND measured_at >= ? AND measured_at < ?", userID, start, end).
			First(&existing).Error
		if err == nil {
			existing.WeightKg = wi.WeightKg
			database.DB.Save(&existing)
			imported++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to look up weight entry", "error", err)
			continue
		}

		entry := models.WeightEntry{
			UserID:     userID,
			WeightKg:   wi.WeightKg,
			MeasuredAt: start,
			Note:       "imported",
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			logger.Error("Failed to import weight entry", "error", err)
			continue
		}
		imported++
	}

	logger.Info("Weigh-in import finished", "user_id", userID, "imported", imported, "skipped", skipped)
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported, "skipped": skipped})
}
