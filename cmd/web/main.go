package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/joeshaw/envdecode"

	"github.com/mtlgames/bonhomme"
	"github.com/mtlgames/bonhomme/server"
)

type config struct {
	Port          int    `env:"PORT,default=8000"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN,default=*"`
}

func main() {
	var cfg config
	if err := envdecode.Decode(&cfg); err != nil {
		log.Fatalf("could not read config: %s", err)
	}

	store := bonhomme.NewInMemoryGameStore()
	s := server.NewServer(store)

	handler := handlers.LoggingHandler(os.Stdout,
		handlers.CORS(
			handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		)(s))

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Listening on %s...", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
