package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/application/verification"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/chat"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/dynamo"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/relayauth"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/sheets"
	snsinfra "github.com/Runyun19/arcane-arena-verify-bot/internal/infrastructure/sns"
	"github.com/Runyun19/arcane-arena-verify-bot/internal/transport/gateway"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// A half-configured bot silently granting nothing is worse than no
		// bot at all.
		log.Fatalf("refusing to start: %v", err)
	}

	chatClient := chat.NewClient(cfg)

	// Sanity check: without manage-messages in the registration channel the
	// privacy policy (delete every submission) silently stops working.
	checkCtx, cancelCheck := context.WithTimeout(context.Background(), 10*time.Second)
	if bits, err := chatClient.OwnPermissions(checkCtx, cfg.RegisterChannelID); err != nil {
		log.Printf("WARN: could not read own permissions in register channel: %v", err)
	} else if bits&chat.PermManageMessages == 0 {
		log.Printf("WARN: missing manage-messages in register channel; submissions will not be deleted")
	}
	cancelCheck()

	// Record sink: a broken sink degrades, it never stops the bot. Every
	// failed append is surfaced to the audit channel by the orchestrator.
	var sink verification.RecordSink
	switch cfg.RecordBackend {
	case "sheets":
		if s, err := sheets.NewSink(context.Background(), cfg); err == nil {
			sink = s
			log.Printf("record sink: google sheets (worksheet=%s)", cfg.Worksheet)
		} else {
			log.Printf("WARN: sheets sink unavailable, running degraded: %v", err)
		}
	case "dynamo":
		if client, err := dynamo.NewClient(cfg); err == nil {
			dynamo.Bootstrap(context.Background(), client, cfg.DynamoRecordsTable)
			sink = dynamo.NewSink(client, cfg.DynamoRecordsTable)
			log.Printf("record sink: dynamodb (table=%s)", cfg.DynamoRecordsTable)
		} else {
			log.Printf("WARN: dynamo sink unavailable, running degraded: %v", err)
		}
	default:
		log.Printf("WARN: no record backend configured, running degraded")
	}

	// SNS ops alerting (optional — graceful fallback).
	var alerter verification.Alerter
	if a, err := snsinfra.NewAlerter(cfg); err == nil {
		alerter = a
	} else {
		log.Printf("WARN: ops alerter not available: %v", err)
	}

	relayAuth, err := relayauth.NewProvider(cfg)
	if err != nil {
		log.Fatalf("relay auth: %v", err)
	}

	svc := verification.NewService(verification.ServiceDeps{
		Oracle:    chatClient.Oracle(cfg.VerifiedRoleID),
		Roles:     chatClient,
		Sink:      sink,
		Messenger: chatClient,
		Alerter:   alerter,
		Config:    cfg,
	})

	router := gateway.NewRouter(cfg, &gateway.Deps{
		Service:  svc,
		Platform: chatClient,
		Auth:     relayAuth,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("%s verify bot listening on :%s (env=%s, id length=%d, mode=%s)",
			cfg.Brand, cfg.AppPort, cfg.AppEnv, cfg.IDLength, cfg.ValidationMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Stopped")
}
