package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"messenger/auth"
	"messenger/gateway"
	"messenger/moderation"
	"messenger/repositories"
	"messenger/runtime"
	"messenger/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the process lifecycle.
// Centralizing errors here (instead of os.Exit in place) guarantees the
// deferred database cleanup executes on every exit path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	maskChar, err := characterRune(config.CensoredCharString)
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Presence & fan-out
	registry := runtime.NewRegistry()
	fanout := runtime.NewFanout(log, registry, config.SinkTimeout)

	// 4. Stores & domain services
	conversationRepository := repositories.NewConversationRepository(db, log)
	messageRepository := repositories.NewMessageRepository(db, log)

	filter, err := moderation.NewFilter(config.CensoredWords, maskChar)
	if err != nil {
		return fmt.Errorf("moderation filter build failed: %w", err)
	}

	conversationService := services.NewConversationService(log, conversationRepository, fanout)
	messageService := services.NewMessageService(log, messageRepository, conversationService, fanout, filter)

	// 5. Boundary: gates + envelope + HTTP adapter on top of the engine
	verifier := auth.NewVerifier([]byte(config.TokenSecret))
	roleGate := auth.NewRoleGate(conversationService)
	handlers := gateway.NewHandlers(verifier, roleGate, conversationService, messageService)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.ServerPort),
		Handler: newTransport(log, handlers, verifier, registry, config.SinkBufferSize),
	}
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Messaging engine ready",
			"addr", server.Addr,
			"badger", config.BadgerFilepath,
			"moderation", filter.Enabled())
		serverErrors <- server.ListenAndServe()
	}()

	// 6. Wait for shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err = <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	log.Info("Program stopped cleanly")
	return nil
}

// characterRune enforces a single-rune mask character.
func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSORED_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}
