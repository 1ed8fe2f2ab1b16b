package main

import (
	"os"
	"time"

	"seatwise/internal/config"
	"seatwise/internal/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; environment variables win.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.New()

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
