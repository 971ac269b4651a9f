package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/catalog"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
)

// SearchCatalog looks up reference foods by name or brand.
func SearchCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	foods, err := Catalog.SearchByName(query, limit)
	if err != nil {
		logger.Error("Catalog search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if foods == nil {
		foods = []*catalog.Food{}
	}

	writeJSON(w, http.StatusOK, foods)
}

func GetCatalogFood(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "food_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid food ID")
		return
	}

	food, err := Catalog.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Food not found")
			return
		}
		logger.Error("Catalog lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, food)
}

func GetCatalogByBarcode(w http.ResponseWriter, r *http.Request) {
	if _, err := getUserID(r); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	barcode := chi.URLParam(r, "barcode")
	food, err := Catalog.GetByBarcode(barcode)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Food not found")
			return
		}
		logger.Error("Catalog barcode lookup failed", "barcode", barcode, "error", err)
		writeError(w, http.StatusInternalServerError, "Lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, food)
}

// SyncCatalog bulk-upserts reference foods. API-key protected; used by the
// catalog publishing pipeline, not end users.
func SyncCatalog(w http.ResponseWriter, r *http.Request) {
	var foods []catalog.Food
	if err := json.NewDecoder(r.Body).Decode(&foods); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	synced := 0
	for i := range foods {
		if foods[i].Name == "" {
			continue
		}
		if _, err := Catalog.Upsert(&foods[i]); err != nil {
			logger.Error("Failed to upsert catalog food", "name", foods[i].Name, "error", err)
			continue
		}
		synced++
	}

	logger.Info("Catalog sync finished", "received", len(foods), "synced", synced)
	writeJSON(w, http.StatusOK, map[string]int{"received": len(foods), "synced": synced})
}
