// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nocodeci/yatou-sub002/internal/ai"
	"github.com/nocodeci/yatou-sub002/internal/config"
	httptransport "github.com/nocodeci/yatou-sub002/internal/http"
	"github.com/nocodeci/yatou-sub002/internal/http/handlers"
	"github.com/nocodeci/yatou-sub002/internal/infra"
	"github.com/nocodeci/yatou-sub002/internal/maps"
	"github.com/nocodeci/yatou-sub002/internal/modules/dispatch"
	"github.com/nocodeci/yatou-sub002/internal/modules/location"
	"github.com/nocodeci/yatou-sub002/internal/modules/order"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("YATOU_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	tariffStore := tariff.NewStore(dbPool)
	tariffSvc := tariff.NewService(tariffStore)
	if err := tariffSvc.Reload(ctx); err != nil {
		log.Printf("tariff reload failed, serving defaults: %v", err)
	}

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, tariffSvc)

	dispatchStore := dispatch.NewStore(redisClient)
	dispatchSvc := dispatch.NewService(dispatchStore)

	locationStore := location.NewStore(dbPool, redisClient)
	locationSvc := location.NewService(locationStore)

	var routes handlers.RouteEstimator
	if cfg.Maps.APIKey != "" {
		routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		routes = routeSvc
	}

	var llm ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		provider, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer provider.Close()
		llm = provider
	}

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Tariff:   tariffSvc,
		Order:    orderSvc,
		Dispatch: dispatchSvc,
		Location: locationSvc,
		Routes:   routes,
		LLM:      llm,
		Verifier: verifier,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
