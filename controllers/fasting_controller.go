package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

type StartFastRequest struct {
	TargetHours float64    `json:"target_hours"`
	StartedAt   *time.Time `json:"started_at"`
}

// StartFast opens a fasting session. Only one session can run at a time.
func StartFast(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartFastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TargetHours <= 0 {
		req.TargetHours = 16
	}

	var running models.FastingSession
	err = database.DB.Where("user_id = ? AND ended_at IS NULL", userID).First(&running).Error
	if err == nil {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "A fasting session is already running",
			"session": running,
		})
		return
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to check running fast", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start fast")
		return
	}

	startedAt := time.Now()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}
	if startedAt.After(time.Now()) {
		writeError(w, http.StatusBadRequest, "Start time cannot be in the future")
		return
	}

	session := models.FastingSession{
		UserID:      userID,
		StartedAt:   startedAt,
		TargetHours: req.TargetHours,
	}
	if err := database.DB.Create(&session).Error; err != nil {
		logger.Error("Failed to create fasting session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start fast")
		return
	}

	logger.Info("Fast started", "user_id", userID, "session_id", session.ID, "target_hours", session.TargetHours)
	writeJSON(w, http.StatusCreated, session)
}

type EndFastRequest struct {
	EndedAt *time.Time `json:"ended_at"`
}

// EndFast closes a running session. An end time before the start is rejected.
func EndFast(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionID, err := parseUintParam(r, "session_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req EndFastRequest
	if r.Body != nil {
		// Body is optional; a bare POST ends the fast now
		json.NewDecoder(r.Body).Decode(&req)
	}

	var session models.FastingSession
	if err := database.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	if session.EndedAt != nil {
		writeError(w, http.StatusConflict, "Session already ended")
		return
	}

	endedAt := time.Now()
	if req.EndedAt != nil {
		endedAt = *req.EndedAt
	}
	if !endedAt.After(session.StartedAt) {
		writeError(w, http.StatusBadRequest, "End time must be after start time")
		return
	}

	session.EndedAt = &endedAt
	if err := database.DB.Save(&session).Error; err != nil {
		logger.Error("Failed to end fasting session", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to end fast")
		return
	}

	logger.Info("Fast ended", "user_id", userID, "session_id", session.ID,
		"hours", endedAt.Sub(session.StartedAt).Hours())
	writeJSON(w, http.StatusOK, session)
}

// GetCurrentFast returns the running session with elapsed time and progress
// against the target, or active=false.
func GetCurrentFast(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var session models.FastingSession
	err = database.DB.Where("user_id = ? AND ended_at IS NULL", userID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			writeJSON(w, http.StatusOK, map[string]interface{}{"active": false})
			return
		}
		logger.Error("Failed to fetch current fast", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch current fast")
		return
	}

	elapsed := time.Since(session.StartedAt).Hours()
	progress := 0.0
	if session.TargetHours > 0 {
		progress = elapsed / session.TargetHours
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active":        true,
		"session":       session,
		"elapsed_hours": elapsed,
		"progress":      progress,
	})
}

// ListFasts returns the fasting history, newest first.
func ListFasts(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var sessions []models.FastingSession
	if err := database.DB.Where("user_id = ?", userID).
		Order("started_at desc").Limit(100).Find(&sessions).Error; err != nil {
		logger.Error("Failed to fetch fasting history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}
