package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "pet-adoption-store/internal/adapters/storage/memory"
	pg "pet-adoption-store/internal/adapters/storage/postgres"
	lite "pet-adoption-store/internal/adapters/storage/sqlite"
	"pet-adoption-store/internal/domain/adoptions"
	"pet-adoption-store/internal/domain/pets"
	"pet-adoption-store/internal/domain/tags"
	"pet-adoption-store/internal/domain/users"
	"pet-adoption-store/internal/middleware"
	"pet-adoption-store/internal/platform/logger"
	"pet-adoption-store/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption-store/docs"
)

type Options struct {
	AuthVerifier auth.TokenVerifier // puede ser nil (modo dev: headers X-Debug-*)
	TokenIssuer  auth.TokenIssuer   // puede ser nil (login responde 503)

	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, decide por env
	// (DB_DSN -> postgres, SQLITE_PATH -> sqlite embebido, nada -> in-memory).
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}
	r.Use(middleware.RequestLogger(log))

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		userRepo     users.Repository
		tagRepo      tags.Repository
		petRepo      pets.Repository
		adoptionRepo adoptions.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Error("postgres open failed, falling back", map[string]any{"error": err.Error()})
			}
		}
	}

	switch {
	case db != nil:
		if err := pg.EnsureSchema(context.Background(), db); err != nil {
			log.Error("schema setup failed", map[string]any{"error": err.Error()})
		}
		userRepo = pg.NewUsersRepo(db)
		tagRepo = pg.NewTagsRepo(db)
		petRepo = pg.NewPetsRepo(db)
		adoptionRepo = pg.NewAdoptionsRepo(db)

	case os.Getenv("SQLITE_PATH") != "":
		ldb, err := lite.Open(os.Getenv("SQLITE_PATH"))
		if err != nil {
			log.Error("sqlite open failed, using in-memory repos", map[string]any{"error": err.Error()})
			userRepo, tagRepo, petRepo, adoptionRepo = memoryRepos()
			break
		}
		userRepo = lite.NewUsersRepo(ldb)
		tagRepo = lite.NewTagsRepo(ldb)
		petRepo = lite.NewPetsRepo(ldb)
		adoptionRepo = lite.NewAdoptionsRepo(ldb)

	default:
		userRepo, tagRepo, petRepo, adoptionRepo = memoryRepos()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	tagsSvc := tags.NewService(tagRepo)
	petsSvc := pets.NewService(petRepo, tagRepo)
	adoptionsSvc := adoptions.NewService(adoptionRepo)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer, adoptionsSvc)
	tags.RegisterRoutes(r, tagsSvc)
	pets.RegisterRoutes(r, petsSvc)
	adoptions.RegisterRoutes(r, adoptionsSvc)

	return r
}

func memoryRepos() (users.Repository, tags.Repository, pets.Repository, adoptions.Repository) {
	userRepo := mem.NewUserRepo()
	tagRepo := mem.NewTagRepo()
	petRepo := mem.NewPetRepo()
	return userRepo, tagRepo, petRepo, mem.NewAdoptionRepo(petRepo, userRepo)
}
