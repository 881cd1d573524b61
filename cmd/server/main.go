package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/lewiesnyder/sheepshead/internal/database"
	"github.com/lewiesnyder/sheepshead/internal/server"
)

const defaultThinkDelay = 800 * time.Millisecond

func main() {
	log.Println("Starting Sheepshead server...")

	db := database.New(os.Getenv("SHEEPSHEAD_DB"))
	defer db.Close()

	hub := server.NewHub(&db, thinkDelay())
	go hub.Run()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWs(hub, w, r)
	})

	fs := http.FileServer(http.Dir("web/static"))
	http.Handle("/", fs)

	server.HandleRoutes(&db)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

// thinkDelay reads the AI pause from the environment; the delay is a
// presentation policy, not a rule.
func thinkDelay() time.Duration {
	raw := os.Getenv("AI_THINK_DELAY_MS")
	if raw == "" {
		return defaultThinkDelay
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		log.Printf("Ignoring invalid AI_THINK_DELAY_MS=%q", raw)
		return defaultThinkDelay
	}
	return time.Duration(ms) * time.Millisecond
}
