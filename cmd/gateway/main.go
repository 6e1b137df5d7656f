package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/hackforge/hackforge/internal/api/http"
	auth "github.com/hackforge/hackforge/internal/auth/middleware"
	"github.com/hackforge/hackforge/internal/config"
	"github.com/hackforge/hackforge/internal/db"
	"github.com/hackforge/hackforge/internal/judging"
	"github.com/hackforge/hackforge/internal/rbac"
	"github.com/hackforge/hackforge/internal/storage"
	syncx "github.com/hackforge/hackforge/internal/sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := judging.NewSQLStore(dbh, cfg.DBDriver)

	// Bootstrap admin account for fresh databases.
	if cfg.AdminPassHash != "" {
		if _, err := dbh.ExecContext(ctx,
			`INSERT INTO users (id, username, pass_hash, role) VALUES ($1,$1,$2,'admin')
			 ON CONFLICT (id) DO NOTHING`,
			cfg.AdminUser, cfg.AdminPassHash); err != nil {
			log.Printf("admin bootstrap: %v", err)
		}
	}

	// --- Score-payload archive + event log ---
	bs, err := storage.NewFSStore(cfg.ArchiveBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	events := syncx.NewEventRepo(dbh, cfg.SiteID)

	svc := judging.NewService(store,
		judging.WithArchiver(storage.NewScoreArchive(bs)),
		judging.WithEventSink(events),
	)

	// --- Auth (local JWT) ---
	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeOffline))

		pr.With(rbac.Require("criteria:view")).
			Get("/hackathons/{hackathonID}/criteria", api.GetCriteriaHandler(svc))

		pr.With(rbac.Require("score:submit")).
			Post("/projects/{projectID}/scores", api.SubmitScoreHandler(svc))

		pr.With(rbac.RequireAny("assignment:view-own", "assignment:view-any")).
			Get("/judging/assignments", api.GetAssignmentsHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
