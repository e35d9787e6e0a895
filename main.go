package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/cinescore/cinescorebackend/config"
	"github.com/cinescore/cinescorebackend/database"
	"github.com/cinescore/cinescorebackend/handlers"
	"github.com/cinescore/cinescorebackend/repository"
	"github.com/cinescore/cinescorebackend/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}

	directorRepo := repository.NewGormDirectorRepository(db)
	movieRepo := repository.NewGormMovieRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	groupRepo := repository.NewGormGroupRepository(db)
	inviteCodeRepo := repository.NewGormInviteCodeRepository(db)

	if err := handlers.SyncMoviesAdminGroup(groupRepo); err != nil {
		log.Fatalf("FATAL: Failed to sync admin group: %v", err)
	}

	policy := services.PolicyFromConfig(cfg.ReviewEditPolicy)
	reviewService := services.NewReviewService(db, policy)
	queryService := services.NewMovieQueryService(movieRepo, reviewRepo)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Review edit policy: %s", cfg.ReviewEditPolicy)

	authHandler := handlers.NewAuthHandler(userRepo, inviteCodeRepo, cfg)
	directorHandler := handlers.NewDirectorHandler(directorRepo)
	movieHandler := handlers.NewMovieHandler(movieRepo, directorRepo, queryService)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, reviewService)
	criticHandler := handlers.NewCriticHandler(reviewRepo, reviewService, queryService)
	adminUserHandler := handlers.NewAdminUserHandler(userRepo, groupRepo, reviewService)
	adminGroupHandler := handlers.NewAdminGroupHandler(groupRepo, userRepo)
	adminInviteCodeHandler := handlers.NewAdminInviteCodeHandler(inviteCodeRepo)
	permissionsHandler := handlers.NewPermissionsHandler()
	setupHandler := handlers.NewSetupHandler(db, userRepo, groupRepo)

	jwtKey := []byte(cfg.AuthSecret)
	authRequired := func(next http.Handler) http.Handler {
		return handlers.AuthMiddleware(userRepo, jwtKey, next)
	}
	requirePerm := func(permission string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return handlers.RequireGlobalPermission(permission, next)
		}
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.CORSAllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		// public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/setup/first-admin", setupHandler.CreateFirstAdmin)

		// everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(authRequired)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Route("/directors", func(r chi.Router) {
				r.Get("/", directorHandler.ListDirectors)
				r.With(requirePerm("director.create")).Post("/", directorHandler.CreateDirector)
				r.Route("/{directorID}", func(r chi.Router) {
					r.Get("/", directorHandler.GetDirector)
					r.With(requirePerm("director.edit")).Put("/", directorHandler.UpdateDirector)
					r.With(requirePerm("director.delete")).Delete("/", directorHandler.DeleteDirector)
				})
			})

			r.Route("/movies", func(r chi.Router) {
				r.Get("/", movieHandler.ListMovies)
				r.With(requirePerm("movie.create")).Post("/", movieHandler.CreateMovie)
				r.Get("/top/{topNumber}", movieHandler.TopMovies)
				r.Route("/{movieID}", func(r chi.Router) {
					r.Get("/", movieHandler.GetMovie)
					r.With(requirePerm("movie.edit")).Put("/", movieHandler.UpdateMovie)
					r.With(requirePerm("movie.delete")).Delete("/", movieHandler.DeleteMovie)
				})
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.ListReviews)
				r.Post("/", reviewHandler.CreateReview)
				r.Route("/{reviewID}", func(r chi.Router) {
					r.Get("/", reviewHandler.GetReview)
					r.Put("/", reviewHandler.UpdateReview)
					r.Patch("/", reviewHandler.PartialUpdateReview)
					r.Delete("/", reviewHandler.DeleteReview)
				})
			})

			r.Route("/critic", func(r chi.Router) {
				r.Get("/reviews", criticHandler.ListOwnReviews)
				r.Put("/reviews/{reviewID}", criticHandler.UpdateOwnReview)
				r.Delete("/reviews/{reviewID}", criticHandler.DeleteOwnReview)
				r.Get("/movies/{movieID}/reviews", criticHandler.ListOwnReviewsForMovie)
				r.Get("/movies/top/{topNumber}", criticHandler.TopOwnMovies)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Route("/users", func(r chi.Router) {
					r.With(requirePerm("user.list")).Get("/", adminUserHandler.ListUsers)
					r.With(requirePerm("user.create")).Post("/", adminUserHandler.CreateUser)
					r.Route("/{userID}", func(r chi.Router) {
						r.With(requirePerm("user.view")).Get("/", adminUserHandler.GetUser)
						r.With(requirePerm("user.edit")).Put("/", adminUserHandler.UpdateUser)
						r.With(requirePerm("user.delete")).Delete("/", adminUserHandler.DeleteUser)
					})
				})

				r.Route("/groups", func(r chi.Router) {
					r.With(requirePerm("group.list")).Get("/", adminGroupHandler.ListGroups)
					r.With(requirePerm("group.create")).Post("/", adminGroupHandler.CreateGroup)
					r.Route("/{groupID}", func(r chi.Router) {
						r.With(requirePerm("group.view")).Get("/", adminGroupHandler.GetGroup)
						r.With(requirePerm("group.edit")).Put("/", adminGroupHandler.UpdateGroup)
						r.With(requirePerm("group.delete")).Delete("/", adminGroupHandler.DeleteGroup)
						r.Route("/users", func(r chi.Router) {
							r.With(requirePerm("group.view")).Get("/", adminGroupHandler.GetGroupUsers)
							r.With(requirePerm("group.edit.users")).Post("/", adminGroupHandler.AddUserToGroup)
							r.With(requirePerm("group.edit.users")).Delete("/{userID}", adminGroupHandler.RemoveUserFromGroup)
						})
					})
				})

				r.Route("/invites", func(r chi.Router) {
					r.With(requirePerm("invite.list")).Get("/", adminInviteCodeHandler.ListInviteCodes)
					r.With(requirePerm("invite.create")).Post("/", adminInviteCodeHandler.CreateInviteCode)
					r.Route("/{inviteCodeID}", func(r chi.Router) {
						r.With(requirePerm("invite.list")).Get("/", adminInviteCodeHandler.GetInviteCode)
						r.With(requirePerm("invite.edit")).Put("/", adminInviteCodeHandler.UpdateInviteCode)
						r.With(requirePerm("invite.delete")).Delete("/", adminInviteCodeHandler.DeleteInviteCode)
					})
				})

				r.Get("/permissions", permissionsHandler.ListDefinedPermissions)
				r.Get("/permissions/keys", permissionsHandler.ListDefinedPermissionKeys)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
