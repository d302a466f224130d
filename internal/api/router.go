package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/handlers"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/api/response"
	"github.com/VictorMCorral/MagicAppVictor-sub000/internal/version"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning, no auth)
	s.router.Get("/health", s.healthCheck)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Public routes: register and login
		r.Post("/users", s.userHandler.Register)
		r.Post("/sessions", s.userHandler.Login)

		// Everything else requires a session
		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireSession(s.sessions))

			r.Delete("/sessions", s.userHandler.Logout)

			r.Route("/decks", func(r chi.Router) {
				r.Get("/", s.deckHandler.ListDecks)
				r.Post("/", s.deckHandler.CreateDeck)
				r.Get("/{deckID}", s.deckHandler.GetDeck)
				r.Put("/{deckID}", s.deckHandler.UpdateDeck)
				r.Delete("/{deckID}", s.deckHandler.DeleteDeck)
				r.Post("/{deckID}/import", s.deckHandler.ImportDeck)
				r.Get("/{deckID}/export", s.deckHandler.ExportDeck)
				r.Delete("/{deckID}/cards/{scryfallID}", s.deckHandler.RemoveCard)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Get("/search", s.cardHandler.SearchCards)
				r.Get("/named", s.cardHandler.GetCardNamed)
				r.Post("/scan", s.cardHandler.ScanCard)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", s.inventoryHandler.GetInventory)
				r.Put("/", s.inventoryHandler.SaveInventory)
			})
		})
	})
}

// healthCheck reports server liveness.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}
