package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/config"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/controllers"
	auth "github.com/CesDelPino/Fitness-app-2.0-sub006/middleware"
)

func SetupRouter(cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Catalog sync (API key protected)
	r.Group(func(r chi.Router) {
		r.Use(auth.APIKeyMiddleware)
		r.Post("/catalog/sync", controllers.SyncCatalog)
	})

	// User routes (bearer token protected)
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.JWTSecret()))

		// Meal diary
		r.Post("/entries", controllers.CreateEntry)
		r.Get("/entries", controllers.GetEntries)
		r.Get("/entries/{entry_id}/nutrients", controllers.GetEntryNutrients)
		r.Delete("/entries/{entry_id}", controllers.DeleteEntry)
		r.Get("/summary", controllers.GetDaySummary)

		// Macro targets
		r.Get("/goals", controllers.GetGoal)
		r.Post("/goals", controllers.SetGoal)

		// Food catalog
		r.Get("/catalog", controllers.SearchCatalog)
		r.Get("/catalog/barcode/{barcode}", controllers.GetCatalogByBarcode)
		r.Get("/catalog/{food_id}", controllers.GetCatalogFood)

		// Fasting
		r.Post("/fasting/start", controllers.StartFast)
		r.Post("/fasting/{session_id}/end", controllers.EndFast)
		r.Get("/fasting/current", controllers.GetCurrentFast)
		r.Get("/fasting", controllers.ListFasts)

		// Weight trends
		r.Post("/weights", controllers.CreateWeight)
		r.Get("/weights", controllers.ListWeights)
		r.Get("/weights/trend", controllers.GetWeightTrend)
		r.Post("/weights/import", controllers.ImportWeights)
		r.Delete("/weights/{entry_id}", controllers.DeleteWeight)

		// Coaching
		r.Post("/invites", controllers.CreateInvite)
		r.Post("/invites/accept", controllers.AcceptInvite)
		r.Get("/coach/clients", controllers.ListClients)
		r.Get("/coach/clients/{client_id}/checkins", controllers.ListSubmissions)
		r.Get("/links", controllers.ListLinks)
		r.Delete("/links/{link_id}", controllers.RevokeLink)
		r.Get("/links/{link_id}/conversation", controllers.GetConversation)
		r.Post("/links/{link_id}/permissions/request", controllers.RequestPermission)
		r.Get("/permissions/pending", controllers.ListPendingPermissions)
		r.Post("/permissions/{request_id}/resolve", controllers.ResolvePermission)

		// Messaging
		r.Post("/conversations/{conversation_id}/messages", controllers.SendMessage)
		r.Get("/conversations/{conversation_id}/messages", controllers.ListMessages)
		r.Post("/conversations/{conversation_id}/read", controllers.MarkRead)

		// Check-ins
		r.Post("/checkins/templates", controllers.CreateTemplate)
		r.Get("/checkins/templates/mine", controllers.ListTemplates)
		r.Put("/checkins/templates/{template_id}", controllers.UpdateTemplate)
		r.Delete("/checkins/templates/{template_id}", controllers.DeleteTemplate)
		r.Get("/checkins/templates", controllers.ListClientTemplates)
		r.Post("/checkins", controllers.SubmitCheckin)

		// Subscription/quota banner
		r.Get("/quota", controllers.GetQuota)
	})

	// Server-Sent Events for real-time entry updates
	r.Get("/sse/entries", EntrySSE)

	return r
}
