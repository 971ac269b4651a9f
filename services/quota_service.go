package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

// Quota metrics. Daily metrics are metered through UsageRecord counters;
// client and template caps are checked against live row counts.
const (
	MetricEntries   = "entries"
	MetricMessages  = "messages"
	MetricClients   = "clients"
	MetricTemplates = "templates"
)

// Unlimited marks a limit that is never enforced.
const Unlimited = -1

// PlanLimits are the per-plan quota ceilings.
type PlanLimits struct {
	MaxClients     int `json:"max_clients"`
	MaxTemplates   int `json:"max_templates"`
	MessagesPerDay int `json:"messages_per_day"`
	EntriesPerDay  int `json:"entries_per_day"`
	HistoryDays    int `json:"history_days"`
}

var planLimits = map[string]PlanLimits{
	"free":  {MaxClients: 2, MaxTemplates: 1, MessagesPerDay: 20, EntriesPerDay: 10, HistoryDays: 30},
	"pro":   {MaxClients: 25, MaxTemplates: 10, MessagesPerDay: 200, EntriesPerDay: Unlimited, HistoryDays: 365},
	"elite": {MaxClients: Unlimited, MaxTemplates: Unlimited, MessagesPerDay: Unlimited, EntriesPerDay: Unlimited, HistoryDays: Unlimited},
}

// LimitsFor returns the limits for a plan name, defaulting to free for
// unknown plans.
func LimitsFor(plan string) PlanLimits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits["free"]
}

// PlanFor resolves a user's current plan. No subscription row, or an expired
// one, means free.
func PlanFor(db *gorm.DB, userID uint) string {
	var sub models.Subscription
	if err := db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return "free"
	}
	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
		return "free"
	}
	return sub.Plan
}

// QuotaDecision is the outcome of a quota check. Used and Limit feed the
// quota banner payload.
type QuotaDecision struct {
	Allowed bool   `json:"allowed"`
	Metric  string `json:"metric"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"`
}

func dailyLimit(limits PlanLimits, metric string) (int, error) {
	switch metric {
	case MetricEntries:
		return limits.EntriesPerDay, nil
	case MetricMessages:
		return limits.MessagesPerDay, nil
	default:
		return 0, fmt.Errorf("unknown daily metric %q", metric)
	}
}

// AllowDaily checks whether one more unit of a day-metered metric fits the
// user's plan today. It does not consume; call ConsumeDaily after the action
// succeeds.
func AllowDaily(db *gorm.DB, userID uint, metric string) (QuotaDecision, error) {
	limits := LimitsFor(PlanFor(db, userID))
	limit, err := dailyLimit(limits, metric)
	if err != nil {
		return QuotaDecision{}, err
	}

	used, err := usedToday(db, userID, metric)
	if err != nil {
		return QuotaDecision{}, err
	}

	allowed := limit == Unlimited || used < limit
	return QuotaDecision{Allowed: allowed, Metric: metric, Used: used, Limit: limit}, nil
}

// ConsumeDaily increments today's counter for a metric, creating the row on
// first use.
func ConsumeDaily(db *gorm.DB, userID uint, metric string) error {
	rec := models.UsageRecord{
		UserID: userID,
		Metric: metric,
		Day:    startOfDay(time.Now()),
		Count:  1,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "metric"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("usage_records.count + 1"),
			"updated_at": time.Now(),
		}),
	}).Create(&rec).Error
}

func usedToday(db *gorm.DB, userID uint, metric string) (int, error) {
	var rec models.UsageRecord
	err := db.Where("user_id = ? AND metric = ? AND day = ?", userID, metric, startOfDay(time.Now())).
		First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return rec.Count, nil
}

// AllowClients checks the coach's active client count against the plan cap.
func AllowClients(db *gorm.DB, coachID uint) (QuotaDecision, error) {
	limits := LimitsFor(PlanFor(db, coachID))

	var count int64
	err := db.Model(&models.CoachLink{}).
		Where("coach_id = ? AND status = ?", coachID, "active").
		Count(&count).Error
	if err != nil {
		return QuotaDecision{}, err
	}

	allowed := limits.MaxClients == Unlimited || int(count) < limits.MaxClients
	return QuotaDecision{Allowed: allowed, Metric: MetricClients, Used: int(count), Limit: limits.MaxClients}, nil
}

// AllowTemplates checks the coach's template count against the plan cap.
func AllowTemplates(db *gorm.DB, coachID uint) (QuotaDecision, error) {
	limits := LimitsFor(PlanFor(db, coachID))

	var count int64
	err := db.Model(&models.CheckinTemplate{}).
		Where("coach_id = ?", coachID).
		Count(&count).Error
	if err != nil {
		return QuotaDecision{}, err
	}

	allowed := limits.MaxTemplates == Unlimited || int(count) < limits.MaxTemplates
	return QuotaDecision{Allowed: allowed, Metric: MetricTemplates, Used: int(count), Limit: limits.MaxTemplates}, nil
}

// UsageSummary is the quota banner payload: per-metric used/limit/remaining
// for the user's current plan.
func UsageSummary(db *gorm.DB, userID uint) (map[string]QuotaDecision, error) {
	out := make(map[string]QuotaDecision)

	for _, metric := range []string{MetricEntries, MetricMessages} {
		d, err := AllowDaily(db, userID, metric)
		if err != nil {
			return nil, err
		}
		out[metric] = d
	}

	clients, err := AllowClients(db, userID)
	if err != nil {
		return nil, err
	}
	out[MetricClients] = clients

	templates, err := AllowTemplates(db, userID)
	if err != nil {
		return nil, err
	}
	out[MetricTemplates] = templates

	return out, nil
}

// Remaining returns how much of a decision's budget is left, or Unlimited.
func (d QuotaDecision) Remaining() int {
	if d.Limit == Unlimited {
		return Unlimited
	}
	r := d.Limit - d.Used
	if r < 0 {
		r = 0
	}
	return r
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
