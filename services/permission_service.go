package services

import (
	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

// LinkAccess is the authoritative decision on whether an action is allowed
// over a coach link.
type LinkAccess struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Permission scopes a coach can hold on a link.
const (
	ScopeDiary     = "diary"
	ScopeMessaging = "messaging"
)

// MessagingAllowed decides whether messages may flow over a link. Evaluated
// on every send, for both directions.
func MessagingAllowed(link *models.CoachLink) LinkAccess {
	if link == nil {
		return LinkAccess{Allowed: false, Reason: "No link between these users."}
	}
	if link.Status != "active" {
		return LinkAccess{Allowed: false, Reason: "Link has been revoked."}
	}
	if !link.Messaging {
		return LinkAccess{Allowed: false, Reason: "Messaging permission not granted."}
	}
	return LinkAccess{Allowed: true}
}

// DiaryAllowed decides whether the coach may read the client's diary data
// (entries, weights, check-in visibility).
func DiaryAllowed(link *models.CoachLink) LinkAccess {
	if link == nil {
		return LinkAccess{Allowed: false, Reason: "No link between these users."}
	}
	if link.Status != "active" {
		return LinkAccess{Allowed: false, Reason: "Link has been revoked."}
	}
	if !link.Diary {
		return LinkAccess{Allowed: false, Reason: "Diary permission not granted."}
	}
	return LinkAccess{Allowed: true}
}

// ValidScope reports whether a permission request scope is recognized.
func ValidScope(scope string) bool {
	return scope == ScopeDiary || scope == ScopeMessaging
}

// FindLink loads the link between a coach and client regardless of status.
// Returns nil without error when no link exists.
func FindLink(db *gorm.DB, coachID, clientID uint) (*models.CoachLink, error) {
	var link models.CoachLink
	err := db.Where("coach_id = ? AND client_id = ?", coachID, clientID).First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// LinkForUser loads a link by id and verifies the user is one of its two
// parties. Returns nil when the link does not exist or the user is neither
// side.
func LinkForUser(db *gorm.DB, linkID, userID uint) (*models.CoachLink, error) {
	var link models.CoachLink
	err := db.Where("id = ?", linkID).First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if link.CoachID != userID && link.ClientID != userID {
		return nil, nil
	}
	return &link, nil
}

// ApplyScope flips the link flag a permission request asked for.
func ApplyScope(link *models.CoachLink, scope string) {
	switch scope {
	case ScopeDiary:
		link.Diary = true
	case ScopeMessaging:
		link.Messaging = true
	}
}
