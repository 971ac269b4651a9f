package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/catalog"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/middleware"
)

// Catalog is the food reference store, wired in from main at startup.
var Catalog *catalog.Store

func getUserID(r *http.Request) (uint, error) {
	val := r.Context().Value(middleware.UserContextKey)
	id, ok := val.(uint)
	if !ok || id == 0 {
		return 0, http.ErrNoCookie
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	return uint(v), err
}

// parseDateQuery reads ?date=2006-01-02, defaulting to today (UTC).
func parseDateQuery(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

func dayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}
