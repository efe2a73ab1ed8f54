package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; deployments set env vars directly
	_ = godotenv.Load()
	cfg := LoadConfig()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DatabasePath, "Path to replay database")
	flag.Parse()

	db, err := OpenReplayDB(*dbPath)
	if err != nil {
		log.Fatalf("open replay DB: %v", err)
	}
	defer db.Close()

	registry := NewRegistry(cfg.MinOpenMatches, db)
	auth := NewAgentAuth(cfg.AgentTokenSecret)

	hub := NewHub(registry, auth)
	go hub.Run()

	router := SetupRoutes(hub, registry, db, cfg.PublicURL)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: router}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Replay store at %s", *dbPath)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
}
