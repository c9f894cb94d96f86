package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"hanabi-lite/internal/gateway"
	"hanabi-lite/internal/session"
	"hanabi-lite/internal/store"
)

func main() {
	st, storeMode, err := store.NewFromEnv()
	if err != nil {
		log.Fatalf("[server] failed to init store: %v", err)
	}
	defer st.Close()

	lby := session.NewLobby(st)
	defer lby.Stop()

	gw := gateway.New(lby)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[server] store mode: %s", storeMode)
	log.Printf("[server] starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		log.Fatalf("[server] failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
