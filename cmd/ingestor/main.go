package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Open-Coding-Society/optivize-backend/config"
	"github.com/Open-Coding-Society/optivize-backend/models"
	"github.com/Open-Coding-Society/optivize-backend/prediction"
	"github.com/Open-Coding-Society/optivize-backend/store"
)

// OutcomePayload is a labeled sales outcome published by external
// integrations (point-of-sale exports, spreadsheet bridges). Ingested
// records feed the next training run.
type OutcomePayload struct {
	ItemText             string  `json:"item_text"`
	Seasonality          string  `json:"seasonality"`
	Price                float64 `json:"price"`
	Marketing            float64 `json:"marketing"`
	DistributionChannels float64 `json:"distribution_channels"`
	SuccessScore         float64 `json:"success_score"`
}

var (
	outcomesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_ingestor_outcomes_received_total",
		Help: "Total number of MQTT outcome messages received.",
	})
	outcomesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_ingestor_outcomes_stored_total",
		Help: "Total number of outcomes successfully inserted.",
	})
	outcomesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optivize_ingestor_outcomes_failed_total",
		Help: "Total number of outcomes rejected or failed to store.",
	})
)

var redisClient *redis.Client

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	metricsAddr := getEnv("METRICS_ADDR", ":8090")
	redisURL := getEnv("REDIS_URL", "")

	pool, err := pgxpool.New(ctx, cfg.Database.GetPoolDSN())
	if err != nil {
		log.Fatalf("db pool init failed: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}

	recordStore := store.NewRecordStore(pool)
	if err := recordStore.Init(ctx); err != nil {
		log.Fatalf("record store init failed: %v", err)
	}

	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("invalid REDIS_URL, skipping Redis: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				log.Printf("redis ping failed, skipping Redis: %v", err)
				redisClient = nil
			} else {
				log.Printf("redis connected: %s", redisURL)
			}
		}
	}

	go serveHTTP(metricsAddr)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.URL)
	opts.SetClientID("ingestor-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		processOutcome(ctx, recordStore, message.Payload())
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.MQTT.Topic, 0, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("ingestor subscribed to topic=%s", cfg.MQTT.Topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		log.Fatalf("mqtt connection failed: %v", token.Error())
	}

	log.Printf("ingestor running, mqtt=%s db=ok metrics=%s", cfg.MQTT.URL, metricsAddr)

	<-ctx.Done()
	log.Printf("ingestor shutting down")
	client.Disconnect(250)
	if redisClient != nil {
		redisClient.Close()
	}
}

func processOutcome(ctx context.Context, recordStore *store.RecordStore, payload []byte) {
	outcomesReceived.Inc()

	var outcome OutcomePayload
	if err := json.Unmarshal(payload, &outcome); err != nil {
		outcomesFailed.Inc()
		log.Printf("invalid outcome payload: %v", err)
		return
	}
	if outcome.ItemText == "" || outcome.Seasonality == "" || outcome.Price <= 0 ||
		outcome.SuccessScore < 0 || outcome.SuccessScore > 100 {
		outcomesFailed.Inc()
		log.Printf("outcome failed validation: item=%q", outcome.ItemText)
		return
	}

	rec := models.PredictionRecord{
		ItemText:             outcome.ItemText,
		Seasonality:          outcome.Seasonality,
		Price:                outcome.Price,
		Marketing:            outcome.Marketing,
		DistributionChannels: outcome.DistributionChannels,
		Category:             prediction.Classify(outcome.ItemText),
		Success:              math.Round(outcome.SuccessScore) >= prediction.SuccessThreshold,
		Score:                outcome.SuccessScore,
	}
	if err := recordStore.Insert(ctx, &rec); err != nil {
		outcomesFailed.Inc()
		log.Printf("db insert failed for item=%q: %v", outcome.ItemText, err)
		return
	}
	outcomesStored.Inc()

	if redisClient != nil {
		data, err := json.Marshal(rec)
		if err == nil {
			if err := redisClient.Publish(ctx, "optivize:outcomes", data).Err(); err != nil {
				log.Printf("redis publish failed: %v", err)
			}
		}
	}
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
