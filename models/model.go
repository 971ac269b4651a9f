package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/nutrition"
)

// User represents an authenticated user. Identity issuance lives in the
// external provider; this row is the local profile the token maps onto.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"` // user, coach
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// FoodItem is a food the user can log, sourced from the reference catalog or
// created free-form. Macros are per 100g; ServingSizeGrams is the catalog's
// declared serving weight when known.
type FoodItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null;index" json:"name"`
	Brand     string         `gorm:"size:255" json:"brand"`
	Barcode   string         `gorm:"size:64;index" json:"barcode"`
	CatalogID *int64         `gorm:"index" json:"catalog_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Per 100g
	Calories float64 `gorm:"default:0" json:"calories"`
	Protein  float64 `gorm:"default:0" json:"protein"`
	Carbs    float64 `gorm:"default:0" json:"carbs"`
	Fat      float64 `gorm:"default:0" json:"fat"`
	Fiber    float64 `gorm:"default:0" json:"fiber"`

	ServingSizeGrams *float64 `json:"serving_size_grams"`
	Verified         bool     `gorm:"default:false" json:"verified"`
}

// FoodEntry is one row of the meal diary. Macros are the values as stored for
// the logged portion; Snapshot preserves the full nutrient record captured at
// logging time (per-100g basis until the rescale worker stamps it).
type FoodEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	FoodItemID *uint          `gorm:"index" json:"food_item_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	MealType   string         `gorm:"size:20;default:'snack'" json:"meal_type"` // breakfast, lunch, dinner, snack
	Quantity   float64        `gorm:"default:1" json:"quantity"`                // servings logged
	Snapshot   string         `gorm:"type:text" json:"-"`
	LoggedAt   time.Time      `gorm:"index" json:"logged_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Calories float64 `gorm:"default:0" json:"calories"`
	Protein  float64 `gorm:"default:0" json:"protein"`
	Carbs    float64 `gorm:"default:0" json:"carbs"`
	Fat      float64 `gorm:"default:0" json:"fat"`
	Fiber    float64 `gorm:"default:0" json:"fiber"`

	FoodItem *FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item,omitempty"`
}

// NutrientSnapshot decodes the stored snapshot JSON. Returns nil when the
// entry carries no snapshot.
func (e *FoodEntry) NutrientSnapshot() (*nutrition.Snapshot, error) {
	if e.Snapshot == "" {
		return nil, nil
	}
	var snap nutrition.Snapshot
	if err := json.Unmarshal([]byte(e.Snapshot), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SetNutrientSnapshot encodes and stores a snapshot on the entry.
func (e *FoodEntry) SetNutrientSnapshot(snap *nutrition.Snapshot) error {
	if snap == nil {
		e.Snapshot = ""
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	e.Snapshot = string(data)
	return nil
}

// FastingSession tracks one fast. EndedAt nil means the fast is running.
type FastingSession struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	TargetHours float64    `gorm:"default:16" json:"target_hours"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WeightEntry is a single weigh-in.
type WeightEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	WeightKg   float64   `gorm:"not null" json:"weight_kg"`
	MeasuredAt time.Time `gorm:"not null;index" json:"measured_at"`
	Note       string    `gorm:"size:255" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NutritionGoal holds a user's daily macro targets. One active goal per user.
type NutritionGoal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CalorieTarget float64 `gorm:"default:0" json:"calorie_target"`
	ProteinTarget float64 `gorm:"default:0" json:"protein_target"`
	CarbsTarget   float64 `gorm:"default:0" json:"carbs_target"`
	FatTarget     float64 `gorm:"default:0" json:"fat_target"`
}

// CoachLink connects a coach and a client with per-scope permission flags.
// Messaging starts on and diary access off when an invitation is accepted.
type CoachLink struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CoachID   uint           `gorm:"not null;index;uniqueIndex:idx_coach_client" json:"coach_id"`
	ClientID  uint           `gorm:"not null;index;uniqueIndex:idx_coach_client" json:"client_id"`
	Status    string         `gorm:"size:20;default:'active'" json:"status"` // active, revoked
	Messaging bool           `gorm:"default:true" json:"messaging"`
	Diary     bool           `gorm:"default:false" json:"diary"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Coach  *User `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// PermissionRequest is a coach's pending ask for a scope on a link.
type PermissionRequest struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	LinkID     uint       `gorm:"not null;index" json:"link_id"`
	Scope      string     `gorm:"size:20;not null" json:"scope"`            // diary, messaging
	Status     string     `gorm:"size:20;default:'pending'" json:"status"` // pending, approved, denied
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Link *CoachLink `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// Invitation is a one-shot coach invite. Only the bcrypt hash of the code is
// stored; the plaintext code is returned once at creation.
type Invitation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CoachID    uint       `gorm:"not null;index" json:"coach_id"`
	CodeHash   string     `gorm:"size:255;not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	AcceptedBy *uint      `json:"accepted_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Conversation is the message thread for one coach link, created lazily on
// first send.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LinkID    uint      `gorm:"not null;uniqueIndex" json:"link_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Link *CoachLink `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// Message is one message in a conversation; either a text body or voice
// metadata (audio lives in external storage, only the URL is kept).
type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null;index" json:"sender_id"`
	Body           string     `gorm:"type:text" json:"body"`
	AudioURL       string     `gorm:"size:512" json:"audio_url,omitempty"`
	AudioSeconds   int        `gorm:"default:0" json:"audio_seconds,omitempty"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}

// CheckinTemplate is a coach-authored questionnaire. Questions is a JSON
// array validated on save (see services.ParseQuestions).
type CheckinTemplate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CoachID   uint           `gorm:"not null;index" json:"coach_id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions string         `gorm:"type:text;not null" json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CheckinSubmission is a client's filled-in check-in.
type CheckinSubmission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TemplateID  uint      `gorm:"not null;index" json:"template_id"`
	ClientID    uint      `gorm:"not null;index" json:"client_id"`
	Answers     string    `gorm:"type:text;not null" json:"answers"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`

	Template *CheckinTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}

// Subscription maps a user to a billing plan. Absence of a row means free.
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan      string     `gorm:"size:20;default:'free'" json:"plan"` // free, pro, elite
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UsageRecord is a per-day metered counter for one quota metric.
type UsageRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_usage_user_metric_day" json:"user_id"`
	Metric    string    `gorm:"size:40;not null;uniqueIndex:idx_usage_user_metric_day" json:"metric"`
	Day       time.Time `gorm:"type:date;not null;uniqueIndex:idx_usage_user_metric_day" json:"day"`
	Count     int       `gorm:"default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
