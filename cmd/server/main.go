package main

import (
	"fmt"
	"log"

	"fieldlens/internal/config"
	"fieldlens/internal/domain"
	"fieldlens/internal/extract"
	"fieldlens/internal/extract/gemini"
	"fieldlens/internal/extract/mistral"
	"fieldlens/internal/handler"
	"fieldlens/internal/pdfinfo"
	"fieldlens/internal/repository/postgres"
	"fieldlens/internal/router"
	"fieldlens/internal/service"
	s3storage "fieldlens/internal/storage/s3"
	"fieldlens/internal/view"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	documentRepo := postgres.NewDocumentRepo(db)

	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Extraction strategies
	registry := extract.NewRegistry()
	registry.Register(domain.ModelMistralOCR, mistral.New(&cfg.Extract.Mistral))
	registry.Register(domain.ModelGeminiVision, gemini.New(&cfg.Extract.Gemini))
	registry.Register(domain.ModelGeminiPro, gemini.NewWithModel(&cfg.Extract.Gemini, string(domain.ModelGeminiPro)))

	selection := view.NewSelectionController()

	orchestrator := service.NewOrchestrator(service.OrchestratorDeps{
		Registry:  registry,
		Inspector: pdfinfo.NewInspector(),
		Selection: selection,
		Repo:      documentRepo,
		Storage:   s3Client,
		Bucket:    cfg.S3.Bucket,
		MaxBytes:  cfg.Limits.MaxFileSizeBytes(),
	})

	viewSvc := view.NewService(orchestrator, selection)

	// Handlers
	healthH := handler.NewHealthHandler(version)
	processH := handler.NewProcessHandler(orchestrator, cfg.Limits.MaxFileSizeBytes())
	documentH := handler.NewDocumentHandler(documentRepo, s3Client, cfg.S3.PresignExpiry)
	viewH := handler.NewViewHandler(viewSvc)

	r := router.Setup(cfg.CORS.AllowedOrigins, healthH, processH, documentH, viewH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
