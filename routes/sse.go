package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/jobs"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
)

const heartbeatInterval = 25 * time.Second

// EntrySSE handles Server-Sent Events for entry rescale updates
func EntrySSE(w http.ResponseWriter, r *http.Request) {
	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	updateCh := make(chan jobs.EntryUpdate, 10)
	worker := jobs.GetWorker()
	worker.Subscribe(updateCh)

	logger.Info("SSE client connected")

	fmt.Fprintf(w, "event: connected\ndata: {\"status\": \"connected\"}\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			logger.Info("SSE client disconnected")
			worker.Unsubscribe(updateCh)
			return
		case <-heartbeat.C:
			// Comment line keeps proxies from closing the idle stream
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case update := <-updateCh:
			data, err := json.Marshal(update)
			if err != nil {
				logger.Error("Failed to marshal entry update", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: entry_update\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
