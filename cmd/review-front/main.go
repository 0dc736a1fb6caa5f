package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dgellow/review-front/internal"
	"github.com/dgellow/review-front/internal/config"
	"github.com/dgellow/review-front/internal/log"
)

var BuildVersion = "dev"

func main() {
	envFile := flag.String("env-file", ".env", "path to dotenv file (missing file is ignored)")
	version := flag.Bool("version", false, "print version and exit")
	help := flag.Bool("help", false, "print help and exit")
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}
	if *version {
		fmt.Println(BuildVersion)
		return
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		log.LogError("Failed to load env file: %v", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.LogError("Failed to load config: %v", err)
		os.Exit(1)
	}

	log.LogInfoWithFields("main", "Starting review-front", map[string]any{
		"version": BuildVersion,
		"addr":    cfg.Addr,
	})

	app, err := internal.NewReviewFront(cfg)
	if err != nil {
		log.LogError("Failed to create frontend application: %v", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		log.LogError("Failed to start server: %v", err)
		os.Exit(1)
	}
}
