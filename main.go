package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/auth"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/config"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/db"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/middleware"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/records"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection")
	}

	if err := auth.Init(conn); err != nil {
		log.Fatal().Err(err).Msg("auth migration")
	}
	if err := records.Init(conn); err != nil {
		log.Fatal().Err(err).Msg("records migration")
	}

	credentials := auth.NewGormCredentialStore(conn)
	service := auth.NewService(credentials, log)
	sessions := auth.NewSessionStore(conn, auth.DefaultSessionTTL)
	authHandler := auth.NewHandler(service, sessions, log)

	guard := middleware.RequireSession(sessions)
	// 1 request/sec with a burst of 5 per IP on the credential endpoints.
	limiter := middleware.NewRateLimiter(rate.Every(time.Second), 5)

	registry := records.NewRegistry(conn, log)
	dashboard := records.NewDashboard(conn, log)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)
	r.Get("/home", dashboard.SummaryHandler)
	authHandler.RegisterRoutes(r, guard, limiter.Middleware)
	registry.RegisterRoutes(r, guard, log)

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
