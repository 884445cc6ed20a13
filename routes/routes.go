package routes

import (
	"github.com/Zharaskq/pitwall/handlers"
	"github.com/Zharaskq/pitwall/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	driverHandler *handlers.DriverHandler,
	raceHandler *handlers.RaceHandler,
	predictionHandler *handlers.PredictionHandler,
	leagueHandler *handlers.LeagueHandler,
	standingsHandler *handlers.StandingsHandler,
	adminHandler *handlers.AdminHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", userHandler.Me)
		r.Patch("/me", userHandler.UpdateMe)
		r.Post("/me/avatar", userHandler.UploadAvatar)
		r.Get("/me/predictions", predictionHandler.ListMine)
	})

	router.Route("/drivers", func(r chi.Router) {
		r.Get("/", driverHandler.List)
		r.Get("/{driverID}", driverHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			r.Post("/", driverHandler.Create)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/", driverHandler.ListTeams)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			r.Post("/", driverHandler.CreateTeam)
		})
	})

	router.Route("/races", func(r chi.Router) {
		r.Get("/", raceHandler.List)
		r.Get("/{raceID}", raceHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{raceID}/predictions", predictionHandler.Submit)
			r.Get("/{raceID}/predictions/me", predictionHandler.GetForRace)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			r.Post("/", raceHandler.Create)
			r.Patch("/{raceID}/status", raceHandler.UpdateStatus)
			r.Patch("/{raceID}/result", raceHandler.SubmitResult)
		})
	})

	router.Route("/leagues", func(r chi.Router) {
		r.Get("/", leagueHandler.Search)
		r.Get("/{leagueID}", leagueHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", leagueHandler.Create)
			r.Get("/mine", leagueHandler.ListMine)
			r.Patch("/{leagueID}", leagueHandler.Update)
			r.Delete("/{leagueID}", leagueHandler.Delete)
			r.Post("/{leagueID}/join", leagueHandler.Join)
			r.Post("/{leagueID}/leave", leagueHandler.Leave)
			r.Post("/{leagueID}/invite", leagueHandler.Invite)
			r.Post("/{leagueID}/logo", leagueHandler.UploadLogo)
			r.Get("/{leagueID}/standings", standingsHandler.League)
		})
	})

	router.Get("/standings", standingsHandler.Global)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAdmin)
		r.Post("/recompute", adminHandler.Recompute)
		r.Post("/sync-results", adminHandler.SyncResults)
	})
}
