package main

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	apireport "btr_valuation/pkg/api/report"
	"btr_valuation/pkg/core/config"
	"btr_valuation/pkg/core/dataset"
	"btr_valuation/pkg/core/geo"
	"btr_valuation/pkg/core/llm"
	"btr_valuation/pkg/core/report"
	"btr_valuation/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	configPath := envOr("CONFIG_PATH", "config/engine.yaml")
	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	dataDir := envOr("DATA_DIR", "data")
	catalog, err := dataset.NewCatalog(dataDir)
	if err != nil {
		log.Fatalf("[DATASET] cannot read data directory %s: %v", dataDir, err)
	}

	// Optional persistence: no DATABASE_URL means storeless operation.
	var repo *store.ReportRepo
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(context.Background()); err != nil {
			log.Fatalf("[STORE] %v", err)
		}
		defer store.Close()
		repo = store.NewReportRepo()
		log.Info("[STORE] report persistence enabled")
	} else {
		log.Info("[STORE] DATABASE_URL not set, running storeless")
	}

	provider := llm.FromEnv(os.Getenv("GEMINI_MODEL"))
	builder := report.NewBuilder(settings, catalog, geo.NewFreeGeocoder(), provider)
	handler := apireport.NewHandler(builder, catalog, repo)

	// Refresh datasets nightly; fetch jobs drop new dated files into DATA_DIR.
	c := cron.New()
	if _, err := c.AddFunc(envOr("DATASET_REFRESH_CRON", "0 3 * * *"), func() {
		if err := catalog.Reload(); err != nil {
			log.Warnf("[DATASET] scheduled reload failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[DATASET] bad refresh schedule: %v", err)
	}
	c.Start()
	defer c.Stop()

	r := mux.NewRouter()
	r.HandleFunc("/api/report", handler.HandleGenerateReport).Methods(http.MethodPost)
	r.HandleFunc("/api/report/{id}", func(w http.ResponseWriter, req *http.Request) {
		handler.HandleGetReport(w, req, mux.Vars(req)["id"])
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/score", handler.HandleScore).Methods(http.MethodGet)
	r.HandleFunc("/api/health", handler.HandleHealth).Methods(http.MethodGet)

	addr := ":" + envOr("PORT", "8080")
	log.Infof("API server starting on %s", addr)
	log.Info("  - POST /api/report")
	log.Info("  - GET  /api/report/{id}")
	log.Info("  - GET  /api/score")
	log.Info("  - GET  /api/health")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("[FATAL] Server failed to start: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
