package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/jtblnchrd-eng/AutoContent/internal/app"
	"github.com/jtblnchrd-eng/AutoContent/internal/config"
	"github.com/jtblnchrd-eng/AutoContent/internal/logger"
	"github.com/jtblnchrd-eng/AutoContent/internal/profile"
)

func main() {
	profileName := flag.String("profile", "", "built-in profile: "+strings.Join(profile.Names(), ", "))
	profileFile := flag.String("profile-file", "", "path to a YAML profile, overrides -profile")
	outputDir := flag.String("out", "", "output directory")
	noLLM := flag.Bool("no-llm", false, "skip the LLM and use fallbacks only")
	preview := flag.Bool("preview", false, "print a table of the scraped stories")
	flag.Parse()

	envErr := godotenv.Load()

	cfg := config.Load()
	if *profileName != "" {
		cfg.Profile = *profileName
	}
	if *profileFile != "" {
		cfg.ProfileFile = *profileFile
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *noLLM {
		cfg.LLMDisabled = true
	}
	if *preview {
		cfg.Preview = true
	}
	cfgErr := cfg.Validate()

	logger.Init(logger.Options{Level: cfg.LogLevel, Debug: cfg.Debug, LogFile: cfg.LogFile})
	if envErr != nil {
		slog.Debug("No .env file loaded", "error", envErr)
	}
	if cfgErr != nil {
		slog.Error("❌ Invalid configuration", "error", cfgErr)
		return
	}

	p, err := loadProfile(cfg)
	if err != nil {
		slog.Error("❌ Failed to load profile", "error", err)
		return
	}

	slog.SetDefault(slog.Default().With("run_id", uuid.NewString(), "profile", p.Name))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("🚀 Starting pipeline", "kind", p.Kind, "output_dir", cfg.OutputDir, "llm_provider", cfg.LLMProvider, "llm_disabled", cfg.LLMDisabled)
	res, err := app.Run(ctx, cfg, p)
	if err != nil {
		slog.Error("❌ Error in main process", "error", err)
		return
	}
	if res.ContentPath != "" {
		fmt.Println(res.ContentPath)
	}
}

func loadProfile(cfg *config.Config) (*profile.Profile, error) {
	if cfg.ProfileFile != "" {
		return profile.LoadFile(cfg.ProfileFile)
	}
	return profile.Load(cfg.Profile)
}
