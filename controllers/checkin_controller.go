package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

type TemplateRequest struct {
	Title     string          `json:"title"`
	Questions json.RawMessage `json:"questions"`
}

// CreateTemplate saves a coach questionnaire. Questions are validated before
// storage; the template cap is plan-gated.
func CreateTemplate(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	quota, err := services.AllowTemplates(database.DB, coachID)
	if err != nil {
		logger.Error("Failed to check template quota", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check quota")
		return
	}
	if !quota.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "Template limit reached for your plan",
			"quota": quota,
		})
		return
	}

	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if _, err := services.ParseQuestions(string(req.Questions)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl := models.CheckinTemplate{
		CoachID:   coachID,
		Title:     req.Title,
		Questions: string(req.Questions),
	}
	if err := database.DB.Create(&tmpl).Error; err != nil {
		logger.Error("Failed to create template", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create template")
		return
	}

	logger.Info("Check-in template created", "coach_id", coachID, "template_id", tmpl.ID)
	writeJSON(w, http.StatusCreated, tmpl)
}

// UpdateTemplate replaces a template's title and questions.
func UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	templateID, err := parseUintParam(r, "template_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	var tmpl models.CheckinTemplate
	if err := database.DB.Where("id = ? AND coach_id = ?", templateID, coachID).First(&tmpl).Error; err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if _, err := services.ParseQuestions(string(req.Questions)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl.Title = req.Title
	tmpl.Questions = string(req.Questions)
	if err := database.DB.Save(&tmpl).Error; err != nil {
		logger.Error("Failed to update template", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update template")
		return
	}

	writeJSON(w, http.StatusOK, tmpl)
}

func DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	templateID, err := parseUintParam(r, "template_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	result := database.DB.Where("id = ? AND coach_id = ?", templateID, coachID).Delete(&models.CheckinTemplate{})
	if result.Error != nil {
		logger.Error("Failed to delete template", "error", result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to delete template")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Template deleted"})
}

// ListTemplates returns the coach's own templates.
func ListTemplates(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	var templates []models.CheckinTemplate
	if err := database.DB.Where("coach_id = ?", coachID).Find(&templates).Error; err != nil {
		logger.Error("Failed to fetch templates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

// diaryCoachIDs returns the coaches who hold an active link with diary
// permission to the client.
func diaryCoachIDs(clientID uint) ([]uint, error) {
	var links []models.CoachLink
	err := database.DB.Where("client_id = ? AND status = ? AND diary = ?", clientID, "active", true).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(links))
	for i, l := range links {
		ids[i] = l.CoachID
	}
	return ids, nil
}

// ListClientTemplates returns the templates a client can fill in: those of
// linked coaches holding diary permission.
func ListClientTemplates(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	coachIDs, err := diaryCoachIDs(userID)
	if err != nil {
		logger.Error("Failed to fetch links", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	if len(coachIDs) == 0 {
		writeJSON(w, http.StatusOK, []models.CheckinTemplate{})
		return
	}

	var templates []models.CheckinTemplate
	if err := database.DB.Where("coach_id IN ?", coachIDs).Find(&templates).Error; err != nil {
		logger.Error("Failed to fetch templates", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

type SubmitCheckinRequest struct {
	TemplateID uint                   `json:"template_id"`
	Answers    map[string]interface{} `json:"answers"`
}

// SubmitCheckin validates a client's answers against the template and stores
// the submission.
func SubmitCheckin(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var tmpl models.CheckinTemplate
	if err := database.DB.First(&tmpl, req.TemplateID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	// The template must come from a coach who can see this client's diary
	coachIDs, err := diaryCoachIDs(userID)
	if err != nil {
		logger.Error("Failed to fetch links", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit check-in")
		return
	}
	visible := false
	for _, id := range coachIDs {
		if id == tmpl.CoachID {
			visible = true
			break
		}
	}
	if !visible {
		writeError(w, http.StatusForbidden, "Template not available to you")
		return
	}

	questions, err := services.ParseQuestions(tmpl.Questions)
	if err != nil {
		logger.Error("Stored template has invalid questions", "template_id", tmpl.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Template is corrupt")
		return
	}
	if err := services.ValidateAnswers(questions, req.Answers); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid answers")
		return
	}

	sub := models.CheckinSubmission{
		TemplateID:  tmpl.ID,
		ClientID:    userID,
		Answers:     string(answersJSON),
		SubmittedAt: time.Now(),
	}
	if err := database.DB.Create(&sub).Error; err != nil {
		logger.Error("Failed to create submission", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit check-in")
		return
	}

	logger.Info("Check-in submitted", "client_id", userID, "template_id", tmpl.ID, "submission_id", sub.ID)
	writeJSON(w, http.StatusCreated, sub)
}

// ListSubmissions lists one client's submissions to the coach's templates.
// The coach needs an active diary-permitted link to the client.
func ListSubmissions(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	clientID, err := parseUintParam(r, "client_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	link, err := services.FindLink(database.DB, coachID, clientID)
	if err != nil {
		logger.Error("Failed to look up link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}
	if access := services.DiaryAllowed(link); !access.Allowed {
		writeError(w, http.StatusForbidden, access.Reason)
		return
	}

	var submissions []models.CheckinSubmission
	if err := database.DB.Preload("Template").
		Joins("JOIN checkin_templates ON checkin_templates.id = checkin_submissions.template_id").
		Where("checkin_submissions.client_id = ? AND checkin_templates.coach_id = ?", clientID, coachID).
		Order("checkin_submissions.submitted_at desc").
		Find(&submissions).Error; err != nil {
		logger.Error("Failed to fetch submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	writeJSON(w, http.StatusOK, submissions)
}
