// Engine consumes tracker payloads from Kafka, runs the geofence transition
// engine, and dispatches events. Set KAFKA_BROKERS and TRACKER_KAFKA_TOPIC;
// set ADMIN_JWT_SECRET to enable the admin HTTP API on ADMIN_ADDR.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"geofence-control-plane/internal/admin"
	"geofence-control-plane/internal/command"
	"geofence-control-plane/internal/config"
	"geofence-control-plane/internal/db"
	"geofence-control-plane/internal/dispatch"
	"geofence-control-plane/internal/engine"
	georepo "geofence-control-plane/internal/geofence/repository"
	"geofence-control-plane/internal/settings"
	"geofence-control-plane/internal/telemetry/otel"
	trackerrepo "geofence-control-plane/internal/tracker/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("engine: KAFKA_BROKERS is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "geofence-engine", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		if err := providers.Shutdown(shutCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var users trackerrepo.Store
	var fences georepo.Registry
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer conn.Close()
		users = trackerrepo.NewPostgresStore(conn)
		fences = georepo.NewPostgresRegistry(conn)
		log.Println("engine: using Postgres state store")
	} else {
		users = trackerrepo.NewMemoryStore()
		fences = georepo.NewMemoryRegistry()
		log.Println("engine: using in-memory state store")
	}

	st := settings.NewStore(settings.Settings{
		AccuracyThreshold: cfg.AccuracyThreshold,
		DoubleEnter:       cfg.DoubleEnter,
		DoubleLeave:       cfg.DoubleLeave,
		UseInregions:      cfg.UseInregions,
	})

	var dispatchers []dispatch.Dispatcher
	kafkaDisp, err := dispatch.NewKafkaDispatcher(brokers, cfg.EventsTopic)
	if err != nil {
		log.Fatalf("dispatch: %v", err)
	}
	if kafkaDisp != nil {
		dispatchers = append(dispatchers, kafkaDisp)
	}
	dispatchers = append(dispatchers, dispatch.NewOTelDispatcher(providers.LoggerProvider))
	dispatcher := dispatch.NewFanout(dispatchers...)
	defer dispatcher.Close()

	eng := engine.New(users, fences, st, dispatcher)

	var publisher command.Publisher
	if cfg.CommandTopic != "" {
		p, err := command.NewKafkaPublisher(brokers, cfg.CommandTopic, cfg.CommandKeyPrefix)
		if err != nil {
			log.Fatalf("command publisher: %v", err)
		}
		if p != nil {
			publisher = p
			defer p.Close()
		}
	}

	var httpSrv *http.Server
	if cfg.AdminJWTSecret != "" {
		srv := admin.NewServer(users, fences, st, eng, publisher, []byte(cfg.AdminJWTSecret), cfg.AdminJWTIssuer)
		httpSrv = &http.Server{Addr: cfg.AdminAddr, Handler: srv.Router()}
		go func() {
			log.Printf("admin API listening on %s", cfg.AdminAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("admin serve: %v", err)
			}
		}()
	} else {
		log.Println("engine: ADMIN_JWT_SECRET not set, admin API disabled")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.TrackerTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("engine: shutting down...")
		cancel()
	}()

	log.Printf("engine: consuming from %s (group %s)", cfg.TrackerTopic, cfg.KafkaGroupID)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("engine: kafka read error: %v", err)
			continue
		}

		handleCtx, handleCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := eng.HandleMessage(handleCtx, string(msg.Key), msg.Value); err != nil {
			log.Printf("engine: handle %s: %v", string(msg.Key), err)
		}
		handleCancel()
	}

	if httpSrv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			log.Printf("admin shutdown: %v", err)
		}
		shutCancel()
	}

	// Give in-flight async dispatches a chance to land before writers close.
	time.Sleep(dispatch.ShutdownDrainDuration)
	log.Println("engine: stopped")
}
