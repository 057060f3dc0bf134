package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/onecent-fusion/backend/internal/config"
	"github.com/onecent-fusion/backend/internal/db"
	"github.com/onecent-fusion/backend/internal/migrations"
	"github.com/onecent-fusion/backend/internal/seed"
)

const (
	apiName    = "1cent Fusion API"
	apiVersion = "0.1.0"
)

type server struct {
	db *sql.DB
}

func (s *server) router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(corsMiddleware(allowedOrigins))
	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Route("/api/lcoe", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/defaults", s.handleDefaults)
		r.Get("/fuel-types", s.handleFuelTypes)
		r.Get("/confinement-types", s.handleConfinementTypes)
		r.Get("/fuel/{fuelType}/constraints", s.handleFuelConstraints)
		r.Get("/confinement/{confinementType}/constraints", s.handleConfinementConstraints)
	})
	r.Route("/api/solver", func(r chi.Router) {
		r.Post("/solve-for/{parameter}", s.handleSolveFor)
		r.Post("/solve-all", s.handleSolveAll)
	})
	return r
}

func main() {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, migrations.DefaultDir); err != nil {
			log.Fatalf("failed to run database migrations: %v", err)
		}
		stats, err := seed.Run(database)
		if err != nil {
			log.Fatalf("failed to seed subsystem catalog: %v", err)
		}
		if stats.Inserts > 0 {
			log.Printf("seeded %d catalog subsystems", stats.Inserts)
		}
	}

	srv := &server{db: database}
	r := srv.router(cfg.AllowedOrigins)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        apiName,
		"version":     apiVersion,
		"description": "Explore fusion electricity at $0.01/kWh ($10/MWh) LCOE",
		"endpoints": map[string]string{
			"calculate":              "POST /api/lcoe/calculate",
			"defaults":               "GET /api/lcoe/defaults",
			"fuel_types":             "GET /api/lcoe/fuel-types",
			"confinement_types":      "GET /api/lcoe/confinement-types",
			"fuel_constraints":       "GET /api/lcoe/fuel/{fuelType}/constraints",
			"confinement_constraints": "GET /api/lcoe/confinement/{confinementType}/constraints",
			"solve_for":              "POST /api/solver/solve-for/{parameter}",
			"solve_all":              "POST /api/solver/solve-all",
		},
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
