package main

import (
	"fmt"
	"os"

	"backwater-server/config"
	"backwater-server/di"
	"backwater-server/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.LogDebug); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("[Main] failed to initialize: %v", err)
	}

	if err := container.HttpServer.Start(); err != nil {
		log.Fatalf("[Main] server stopped: %v", err)
	}
}
