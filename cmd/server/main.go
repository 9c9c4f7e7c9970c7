// Command server runs the simulation: it loads configuration, bootstraps
// the world and its tickers, and serves the HTTP read/write API.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sitegui/nature-pixel/internal/api"
	"github.com/sitegui/nature-pixel/internal/bootstrap"
	"github.com/sitegui/nature-pixel/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	sim, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("bootstrapping world: %v", err)
	}
	defer sim.Stop()

	longPoll := time.Duration(cfg.LongPollingSeconds * float64(time.Second))
	handler := api.NewHandler(sim.World, longPoll, cfg.AssetsDir)

	router := mux.NewRouter()
	handler.Register(router)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
