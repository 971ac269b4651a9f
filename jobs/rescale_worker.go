package jobs

import (
	"sync"
	"time"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/nutrition"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/services"
)

// RescaleJob asks the worker to rescale one food entry's snapshot.
type RescaleJob struct {
	EntryID uint
}

// EntryUpdate is sent to SSE subscribers after an entry's snapshot has been
// rescaled and its stored macros recomputed.
type EntryUpdate struct {
	EntryID    uint                    `json:"entry_id"`
	Grams      float64                 `json:"grams"`
	Source     nutrition.PortionSource `json:"source"`
	Confidence nutrition.Confidence    `json:"confidence"`
	Calories   float64                 `json:"calories"`
	Protein    float64                 `json:"protein"`
	Carbs      float64                 `json:"carbs"`
	Fat        float64                 `json:"fat"`
	Fiber      float64                 `json:"fiber"`
}

// RescaleWorker moves freshly-logged entries off the per-100g catalog basis
// in the background. It is the only writer of Snapshot.ScaledAt.
type RescaleWorker struct {
	jobs        chan RescaleJob
	subscribers map[chan EntryUpdate]bool
	subMux      sync.RWMutex
}

var (
	worker     *RescaleWorker
	workerOnce sync.Once
)

// GetWorker returns the singleton RescaleWorker instance
func GetWorker() *RescaleWorker {
	workerOnce.Do(func() {
		worker = &RescaleWorker{
			jobs:        make(chan RescaleJob, 100),
			subscribers: make(map[chan EntryUpdate]bool),
		}
		go worker.run()
		logger.Info("Rescale worker started")
	})
	return worker
}

// Enqueue adds a rescale job to the queue
func (w *RescaleWorker) Enqueue(entryID uint) {
	select {
	case w.jobs <- RescaleJob{EntryID: entryID}:
		logger.Info("Rescale job enqueued", "entry_id", entryID)
	default:
		logger.Warn("Rescale job queue full, dropping job", "entry_id", entryID)
	}
}

// Subscribe registers a channel to receive entry updates
func (w *RescaleWorker) Subscribe(ch chan EntryUpdate) {
	w.subMux.Lock()
	defer w.subMux.Unlock()
	w.subscribers[ch] = true
}

// Unsubscribe removes a channel from entry updates
func (w *RescaleWorker) Unsubscribe(ch chan EntryUpdate) {
	w.subMux.Lock()
	defer w.subMux.Unlock()
	delete(w.subscribers, ch)
	close(ch)
}

func (w *RescaleWorker) run() {
	for job := range w.jobs {
		w.processJob(job)
	}
}

func (w *RescaleWorker) processJob(job RescaleJob) {
	logger.Info("Processing rescale job", "entry_id", job.EntryID)

	var entry models.FoodEntry
	if err := database.DB.Preload("FoodItem").First(&entry, job.EntryID).Error; err != nil {
		logger.Error("Failed to fetch entry for rescale job", "entry_id", job.EntryID, "error", err)
		return
	}

	snap, err := entry.NutrientSnapshot()
	if err != nil {
		logger.Error("Failed to decode entry snapshot", "entry_id", job.EntryID, "error", err)
		return
	}
	if snap == nil {
		logger.Info("Entry has no snapshot, skipping", "entry_id", job.EntryID)
		return
	}
	if snap.ScaledAt != nil && !snap.ScaledAt.IsZero() {
		logger.Info("Entry snapshot already scaled, skipping", "entry_id", job.EntryID)
		return
	}

	input := services.PortionInputForEntry(&entry, snap)
	result := nutrition.InferPortionGrams(input)
	if result.Grams == nil {
		logger.Warn("No portion inferable for entry", "entry_id", job.EntryID)
		return
	}

	scaled := nutrition.ScaleSnapshot(*snap, *result.Grams, time.Now())
	if err := entry.SetNutrientSnapshot(&scaled); err != nil {
		logger.Error("Failed to encode scaled snapshot", "entry_id", job.EntryID, "error", err)
		return
	}
	services.ApplySnapshotMacros(&entry, &scaled)

	if err := database.DB.Save(&entry).Error; err != nil {
		logger.Error("Failed to save rescaled entry", "entry_id", job.EntryID, "error", err)
		return
	}

	logger.Info("Entry rescaled", "entry_id", entry.ID,
		"grams", *result.Grams, "source", result.Source, "calories", entry.Calories)

	update := EntryUpdate{
		EntryID:    entry.ID,
		Grams:      *result.Grams,
		Source:     result.Source,
		Confidence: result.Confidence,
		Calories:   entry.Calories,
		Protein:    entry.Protein,
		Carbs:      entry.Carbs,
		Fat:        entry.Fat,
		Fiber:      entry.Fiber,
	}

	w.subMux.RLock()
	for ch := range w.subscribers {
		select {
		case ch <- update:
		default:
			// Drop update if subscriber is slow
		}
	}
	w.subMux.RUnlock()
}
