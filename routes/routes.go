package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/padelhub/live-scoring/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	allowedOrigins []string,
	matchHandler *handlers.MatchHandler,
	playerHandler *handlers.PlayerHandler,
	commentaryHandler *handlers.CommentaryHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.CreateMatch)
		r.Get("/", matchHandler.ListMatches)

		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatchByID)
			r.Get("/snapshot", matchHandler.GetSnapshot)
			r.Get("/summary", matchHandler.GetSummary)
			r.Get("/sets", matchHandler.ListSets)
			r.Get("/points", matchHandler.ListPoints)
			r.Post("/points", matchHandler.RecordPoint)
			r.Get("/stats/{playerID}", matchHandler.GetPlayerStats)

			r.Post("/commentary", commentaryHandler.CreateCommentary)
			r.Get("/commentary", commentaryHandler.ListCommentary)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Post("/", playerHandler.CreatePlayer)
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/{playerID}", playerHandler.GetPlayerByID)
		r.Post("/{playerID}/avatar", playerHandler.UploadAvatar)
	})

	router.Get("/ws", webSocketHandler.Serve)
}
