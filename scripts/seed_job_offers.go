package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"alfredoptarigan/job-matcher/internal/config"
	"alfredoptarigan/job-matcher/internal/logger"
	"alfredoptarigan/job-matcher/internal/models"
	"alfredoptarigan/job-matcher/internal/repositories"
	"alfredoptarigan/job-matcher/internal/services"
)

// Loads job offers from a JSON file into the catalog, the same way the
// ingestion webhook does. The file holds either an array of offers or an
// object {"user_email": ..., "offers": [...]}.
func main() {
	path := flag.String("file", "./seed/job_offers.json", "JSON file with job offers")
	email := flag.String("user", "", "owner email (overrides user_email in the file)")
	flag.Parse()

	cfg := config.Load()

	zlog, err := logger.New(logger.Options{
		JSON:    cfg.Log.JSON,
		Debug:   cfg.Log.Debug,
		Service: "seed-job-offers",
		Env:     cfg.Server.Env,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	raw, err := os.ReadFile(*path)
	if err != nil {
		zlog.Fatal("failed to read seed file", zap.String("path", *path), zap.Error(err))
	}

	req, err := decodeSeed(raw)
	if err != nil {
		zlog.Fatal("failed to decode seed file", zap.String("path", *path), zap.Error(err))
	}
	if *email != "" {
		req.UserEmail = *email
	}
	if req.UserEmail == "" {
		zlog.Fatal("no owner email: pass -user or set user_email in the file")
	}

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() { _ = config.CloseDatabase(db) }()

	catalog := services.NewCatalogService(
		repositories.NewJobOfferRepository(db, cfg.Collections.JobOffers),
		repositories.NewJobSourceRepository(db, cfg.Collections.JobSources),
		services.NewNoopPublisher(),
		zlog,
	)

	n, err := catalog.IngestJobOffers(context.Background(), req.UserEmail, req.Offers)
	if err != nil {
		zlog.Fatal("seeding failed", zap.Error(err))
	}

	zlog.Info("seeding complete",
		zap.String("user", req.UserEmail),
		zap.Int("offers", n),
	)
}

func decodeSeed(raw []byte) (models.IngestJobOffersRequest, error) {
	var req models.IngestJobOffersRequest

	var offers []models.JobOffer
	if err := json.Unmarshal(raw, &offers); err == nil {
		req.Offers = offers
		return req, nil
	}

	err := json.Unmarshal(raw, &req)
	return req, err
}
