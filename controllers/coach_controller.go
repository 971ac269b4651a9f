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

func requireCoach(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || user.Role != "coach" {
		writeError(w, http.StatusForbidden, "Coach role required")
		return 0, false
	}
	return userID, true
}

// CreateInvite issues a one-shot invitation code. The code is returned once;
// only its hash is stored.
func CreateInvite(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	quota, err := services.AllowClients(database.DB, coachID)
	if err != nil {
		logger.Error("Failed to check client quota", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check quota")
		return
	}
	if !quota.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "Client limit reached for your plan",
			"quota": quota,
		})
		return
	}

	code := services.NewInviteCode()
	hash, err := services.HashInviteCode(code)
	if err != nil {
		logger.Error("Failed to hash invite code", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create invite")
		return
	}

	invite := models.Invitation{
		CoachID:   coachID,
		CodeHash:  hash,
		ExpiresAt: time.Now().Add(services.InviteTTL),
	}
	if err := database.DB.Create(&invite).Error; err != nil {
		logger.Error("Failed to create invitation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create invite")
		return
	}

	logger.Info("Invitation created", "coach_id", coachID, "invitation_id", invite.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"invitation_id": invite.ID,
		"code":          code,
		"expires_at":    invite.ExpiresAt,
	})
}

type AcceptInviteRequest struct {
	Code string `json:"code"`
}

// AcceptInvite redeems an invitation code for the authenticated client and
// creates the coach link (messaging on, diary off). Expired, used, or
// unknown codes are rejected; so is re-accepting a coach the client is
// already linked to.
func AcceptInvite(w http.ResponseWriter, r *http.Request) {
	clientID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeError(w, http.StatusBadRequest, "Invite code is required")
		return
	}

	// Codes are stored hashed, so candidates have to be checked one by one.
	var candidates []models.Invitation
	if err := database.DB.Where("accepted_at IS NULL AND expires_at > ?", time.Now()).
		Find(&candidates).Error; err != nil {
		logger.Error("Failed to fetch invitations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to accept invite")
		return
	}

	var invite *models.Invitation
	for i := range candidates {
		if services.VerifyInviteCode(candidates[i].CodeHash, req.Code) {
			invite = &candidates[i]
			break
		}
	}
	if invite == nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired invite code")
		return
	}

	if invite.CoachID == clientID {
		writeError(w, http.StatusBadRequest, "Cannot accept your own invite")
		return
	}

	existing, err := services.FindLink(database.DB, invite.CoachID, clientID)
	if err != nil {
		logger.Error("Failed to look up link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to accept invite")
		return
	}
	if existing != nil && existing.Status == "active" {
		writeError(w, http.StatusConflict, "Already linked to this coach")
		return
	}

	var link models.CoachLink
	if existing != nil {
		// Revoked link comes back with default permissions
		existing.Status = "active"
		existing.Messaging = true
		existing.Diary = false
		if err := database.DB.Save(existing).Error; err != nil {
			logger.Error("Failed to reactivate link", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to accept invite")
			return
		}
		link = *existing
	} else {
		link = models.CoachLink{
			CoachID:   invite.CoachID,
			ClientID:  clientID,
			Status:    "active",
			Messaging: true,
			Diary:     false,
		}
		if err := database.DB.Create(&link).Error; err != nil {
			logger.Error("Failed to create link", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to accept invite")
			return
		}
	}

	now := time.Now()
	invite.AcceptedAt = &now
	invite.AcceptedBy = &clientID
	database.DB.Save(invite)

	logger.Info("Invitation accepted", "invitation_id", invite.ID,
		"coach_id", invite.CoachID, "client_id", clientID)
	writeJSON(w, http.StatusCreated, link)
}

// ListClients returns the coach's active links with client profiles.
func ListClients(w http.ResponseWriter, r *http.Request) {
	coachID, ok := requireCoach(w, r)
	if !ok {
		return
	}

	var links []models.CoachLink
	if err := database.DB.Preload("Client").
		Where("coach_id = ? AND status = ?", coachID, "active").
		Find(&links).Error; err != nil {
		logger.Error("Failed to fetch clients", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	writeJSON(w, http.StatusOK, links)
}

// ListLinks is the client-side view of their coach links.
func ListLinks(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var links []models.CoachLink
	if err := database.DB.Preload("Coach").
		Where("client_id = ? AND status = ?", userID, "active").
		Find(&links).Error; err != nil {
		logger.Error("Failed to fetch links", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch links")
		return
	}

	writeJSON(w, http.StatusOK, links)
}

// RevokeLink lets either side end the relationship.
func RevokeLink(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	linkID, err := parseUintParam(r, "link_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid link ID")
		return
	}

	link, err := services.LinkForUser(database.DB, linkID, userID)
	if err != nil {
		logger.Error("Failed to look up link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to revoke link")
		return
	}
	if link == nil {
		writeError(w, http.StatusNotFound, "Link not found")
		return
	}

	link.Status = "revoked"
	if err := database.DB.Save(link).Error; err != nil {
		logger.Error("Failed to revoke link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to revoke link")
		return
	}

	logger.Info("Link revoked", "link_id", link.ID, "by_user", userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Link revoked"})
}

type RequestPermissionRequest struct {
	Scope string `json:"scope"`
}

// RequestPermission lets the coach ask the client for a scope on the link.
func RequestPermission(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	linkID, err := parseUintParam(r, "link_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid link ID")
		return
	}

	var req RequestPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !services.ValidScope(req.Scope) {
		writeError(w, http.StatusBadRequest, "Scope must be diary or messaging")
		return
	}

	link, err := services.LinkForUser(database.DB, linkID, userID)
	if err != nil {
		logger.Error("Failed to look up link", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to request permission")
		return
	}
	if link == nil || link.CoachID != userID {
		writeError(w, http.StatusNotFound, "Link not found")
		return
	}
	if link.Status != "active" {
		writeError(w, http.StatusConflict, "Link is not active")
		return
	}

	if (req.Scope == services.ScopeDiary && link.Diary) ||
		(req.Scope == services.ScopeMessaging && link.Messaging) {
		writeError(w, http.StatusConflict, "Permission already granted")
		return
	}

	var pending int64
	database.DB.Model(&models.PermissionRequest{}).
		Where("link_id = ? AND scope = ? AND status = ?", link.ID, req.Scope, "pending").
		Count(&pending)
	if pending > 0 {
		writeError(w, http.StatusConflict, "Request already pending")
		return
	}

	pr := models.PermissionRequest{LinkID: link.ID, Scope: req.Scope, Status: "pending"}
	if err := database.DB.Create(&pr).Error; err != nil {
		logger.Error("Failed to create permission request", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to request permission")
		return
	}

	logger.Info("Permission requested", "link_id", link.ID, "scope", req.Scope)
	writeJSON(w, http.StatusCreated, pr)
}

// ListPendingPermissions returns the client's open permission requests.
func ListPendingPermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var requests []models.PermissionRequest
	if err := database.DB.Preload("Link.Coach").
		Joins("JOIN coach_links ON coach_links.id = permission_requests.link_id").
		Where("coach_links.client_id = ? AND permission_requests.status = ?", userID, "pending").
		Find(&requests).Error; err != nil {
		logger.Error("Failed to fetch permission requests", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch requests")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

type ResolvePermissionRequest struct {
	Approve bool `json:"approve"`
}

// ResolvePermission lets the client approve or deny a pending request.
// Approval flips the link flag.
func ResolvePermission(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	requestID, err := parseUintParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var req ResolvePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var pr models.PermissionRequest
	if err := database.DB.Preload("Link").First(&pr, requestID).Error; err != nil {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if pr.Link == nil || pr.Link.ClientID != userID {
		writeError(w, http.StatusNotFound, "Request not found")
		return
	}
	if pr.Status != "pending" {
		writeError(w, http.StatusConflict, "Request already resolved")
		return
	}

	now := time.Now()
	pr.ResolvedAt = &now
	if req.Approve {
		pr.Status = "approved"
		services.ApplyScope(pr.Link, pr.Scope)
		if err := database.DB.Save(pr.Link).Error; err != nil {
			logger.Error("Failed to apply permission", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to resolve request")
			return
		}
	} else {
		pr.Status = "denied"
	}

	if err := database.DB.Save(&pr).Error; err != nil {
		logger.Error("Failed to save permission request", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to resolve request")
		return
	}

	logger.Info("Permission resolved", "request_id", pr.ID, "status", pr.Status)
	writeJSON(w, http.StatusOK, pr)
}
