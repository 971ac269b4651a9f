package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/jobs"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/nutrition"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

type CreateEntryRequest struct {
	FoodItemID *uint      `json:"food_item_id"`
	CatalogID  *int64     `json:"catalog_id"`
	Name       string     `json:"name"`
	MealType   string     `json:"meal_type"`
	Quantity   float64    `json:"quantity"`
	LoggedAt   *time.Time `json:"logged_at"`

	// Free-form macros, used when no catalog reference is given
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func validMealType(t string) bool {
	switch t {
	case "breakfast", "lunch", "dinner", "snack":
		return true
	}
	return false
}

// CreateEntry logs a food entry, either against a catalog food or free-form.
// Catalog-backed entries capture a per-100g snapshot and are handed to the
// rescale worker; free-form entries are stored as given.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	quota, err := services.AllowDaily(database.DB, userID, services.MetricEntries)
	if err != nil {
		logger.Error("Failed to check entry quota", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check quota")
		return
	}
	if !quota.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": "Daily entry limit reached for your plan",
			"quota": quota,
		})
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MealType == "" {
		req.MealType = "snack"
	}
	if !validMealType(req.MealType) {
		writeError(w, http.StatusBadRequest, "Invalid meal type")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	loggedAt := time.Now()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}

	entry := models.FoodEntry{
		UserID:   userID,
		Name:     req.Name,
		MealType: req.MealType,
		Quantity: req.Quantity,
		LoggedAt: loggedAt,
	}

	item, err := resolveFoodItem(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if item != nil {
		entry.FoodItemID = &item.ID
		if entry.Name == "" {
			entry.Name = item.Name
		}
		// Initial macros are the per-100g reference values; the rescale
		// worker replaces them once a portion has been inferred.
		entry.Calories = item.Calories
		entry.Protein = item.Protein
		entry.Carbs = item.Carbs
		entry.Fat = item.Fat
		entry.Fiber = item.Fiber

		snap := services.SnapshotFromPer100g(item)
		if err := entry.SetNutrientSnapshot(snap); err != nil {
			logger.Error("Failed to encode snapshot", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to capture snapshot")
			return
		}
	} else {
		if entry.Name == "" {
			writeError(w, http.StatusBadRequest, "Name is required for free-form entries")
			return
		}
		entry.Calories = req.Calories
		entry.Protein = req.Protein
		entry.Carbs = req.Carbs
		entry.Fat = req.Fat
		entry.Fiber = req.Fiber
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		logger.Error("Failed to create entry", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	if err := services.ConsumeDaily(database.DB, userID, services.MetricEntries); err != nil {
		logger.Error("Failed to consume entry quota", "user_id", userID, "error", err)
	}

	if entry.Snapshot != "" {
		jobs.GetWorker().Enqueue(entry.ID)
	}

	logger.Info("Entry logged", "user_id", userID, "entry_id", entry.ID, "meal_type", entry.MealType)
	writeJSON(w, http.StatusCreated, entry)
}

// resolveFoodItem finds or creates the FoodItem a new entry points at.
// Returns nil for free-form entries.
func resolveFoodItem(req *CreateEntryRequest) (*models.FoodItem, error) {
	if req.FoodItemID != nil {
		var item models.FoodItem
		if err := database.DB.First(&item, *req.FoodItemID).Error; err != nil {
			return nil, errInvalidFoodItem
		}
		return &item, nil
	}

	if req.CatalogID != nil && Catalog != nil {
		var item models.FoodItem
		err := database.DB.Where("catalog_id = ?", *req.CatalogID).First(&item).Error
		if err == nil {
			return &item, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		food, err := Catalog.GetByID(*req.CatalogID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, errInvalidCatalogID
			}
			return nil, err
		}

		item = models.FoodItem{
			Name:             food.Name,
			Brand:            food.Brand,
			Barcode:          food.Barcode,
			CatalogID:        &food.ID,
			Calories:         food.Calories,
			Protein:          food.Protein,
			Carbs:            food.Carbs,
			Fat:              food.Fat,
			Fiber:            food.Fiber,
			ServingSizeGrams: food.ServingSizeGrams,
			Verified:         true,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}

	return nil, nil
}

var (
	errInvalidFoodItem  = entryError("Unknown food item")
	errInvalidCatalogID = entryError("Unknown catalog food")
)

type entryError string

func (e entryError) Error() string { return string(e) }

// GetEntries returns the diary rows for one day.
func GetEntries(w http.ResponseWriter, r *http.Request) {
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

	var entries []models.FoodEntry
	if err := database.DB.Preload("FoodItem").
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Order("logged_at asc").Find(&entries).Error; err != nil {
		logger.Error("Failed to fetch entries", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch entries")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

type formattedNutrient struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Amount string `json:"amount"`
}

type formattedSection struct {
	Key       string              `json:"key"`
	Title     string              `json:"title"`
	Nutrients []formattedNutrient `json:"nutrients"`
}

// missingValuePlaceholder is what the client shows for nutrients the source
// never reported.
const missingValuePlaceholder = "–"

// GetEntryNutrients builds the nutrient display payload for one entry: runs
// portion inference over the stored row, scales the snapshot when it is still
// on the 100g basis, then groups and formats the values.
func GetEntryNutrients(w http.ResponseWriter, r *http.Request) {
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

	var entry models.FoodEntry
	if err := database.DB.Preload("FoodItem").
		Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	snap, err := entry.NutrientSnapshot()
	if err != nil {
		logger.Error("Failed to decode snapshot", "entry_id", entry.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Corrupt snapshot")
		return
	}

	input := services.PortionInputForEntry(&entry, snap)
	result := nutrition.InferPortionGrams(input)

	display := snap
	if snap != nil && (snap.ScaledAt == nil || snap.ScaledAt.IsZero()) && result.Grams != nil {
		// Scale for display only; persistence belongs to the worker.
		scaled := nutrition.ScaleSnapshot(*snap, *result.Grams, time.Now())
		display = &scaled
	}

	var sections []formattedSection
	if display != nil {
		for _, sec := range nutrition.GroupNutrients(display.Nutrients) {
			out := formattedSection{Key: sec.Key, Title: sec.Title}
			for _, n := range sec.Nutrients {
				out.Nutrients = append(out.Nutrients, formattedNutrient{
					ID:     n.ID,
					Name:   n.Name,
					Unit:   n.Unit,
					Amount: nutrition.FormatAmount(n.Value, n.Unit, missingValuePlaceholder),
				})
			}
			sections = append(sections, out)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entry_id":   entry.ID,
		"grams":      result.Grams,
		"source":     result.Source,
		"confidence": result.Confidence,
		"sections":   sections,
	})
}

// DeleteEntry removes a diary row.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
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

	result := database.DB.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.FoodEntry{})
	if result.Error != nil {
		logger.Error("Failed to delete entry", "error", result.Error)
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	if result.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	logger.Info("Entry deleted", "user_id", userID, "entry_id", entryID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}
