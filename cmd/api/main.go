package main

import (
	"log"
	"net/http"
	"time"

	"gapscout/internal/api"
	"gapscout/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	h := api.NewServer(cfg)
	// Analyze blocks on the full pipeline, so the write timeout stays generous.
	srv := &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      h.Routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
	}
	log.Printf("gapscout api listening on %s llm_providers=%q embed_providers=%q", cfg.APIAddr, cfg.LLMProviders, cfg.EmbedProviders)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
