package routes

import (
	_ "embed"
	"net/http"

	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/middleware"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// OpenAPIPath serves the API description read by the Swagger UI under /swagger/.
const OpenAPIPath = "/swagger/openapi.json"

//go:embed openapi.json
var openAPIDocument []byte

type Options struct {
	AllowedOrigins []string
	Authenticator  *middleware.Authenticator
	RateLimiter    *middleware.IPRateLimiter
	Metrics        http.Handler
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	router.Get(OpenAPIPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDocument)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(OpenAPIPath)))

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(middleware.RateLimit(opts.RateLimiter))
		}

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты для просмотра турниров
			r.Get("/", tournamentHandler.ListHandler)
			r.Get("/{tournamentID}", tournamentHandler.GetByIDHandler)
			r.Get("/{tournamentID}/matches", matchHandler.ListHandler)
			r.Get("/{tournamentID}/standings", matchHandler.StandingsHandler)

			// Защищенные маршруты только для организаторов
			r.Group(func(r chi.Router) {
				r.Use(opts.Authenticator.Authenticate)
				r.Use(middleware.Authorize(models.RoleOrganizer, models.RoleAdmin))

				r.Post("/", tournamentHandler.CreateHandler)
				r.Delete("/{tournamentID}", tournamentHandler.DeleteHandler)
				r.Post("/{tournamentID}/matches/{matchID}/resolve", matchHandler.ResolveHandler)
			})
		})
	})
}
