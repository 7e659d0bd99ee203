package internal

import (
	"net/http"
	"ponydiary/internal/controllers"
	"ponydiary/internal/providers"
	"ponydiary/internal/structures"
)

func InitRoutes(journalController *controllers.JournalController, offlineController *controllers.OfflineController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/{year}/entries", http.HandlerFunc(journalController.ListEntries))
	routers.Delete("/api/{year}/entries", http.HandlerFunc(journalController.ClearEntries))
	routers.Get("/api/{year}/entries/{day}", http.HandlerFunc(journalController.GetEntry))
	routers.Put("/api/{year}/entries/{day}", http.HandlerFunc(journalController.SaveEntry))
	routers.Delete("/api/{year}/entries/{day}", http.HandlerFunc(journalController.DeleteEntry))
	routers.Get("/api/{year}/stats", http.HandlerFunc(journalController.GetStats))
	routers.Get("/api/{year}/export", http.HandlerFunc(journalController.Export))
	routers.Get("/api/{year}/random", http.HandlerFunc(journalController.RandomMemory))
	routers.Post("/api/import", http.HandlerFunc(journalController.Import))
	routers.Get("/api/theme", http.HandlerFunc(journalController.GetTheme))
	routers.Put("/api/theme", http.HandlerFunc(journalController.SetTheme))

	if conf.Offline.Enabled {
		routers.Post("/offline/message", http.HandlerFunc(offlineController.Message))
		routers.Get("/offline/status", http.HandlerFunc(offlineController.Status))
	}
	return routers
}
