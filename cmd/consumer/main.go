// The consumer drains the quote-events topic into the billing database and
// keeps a per-account latest-quote cache warm in Redis.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/example/nemt-pricing/internal/models"
	"github.com/example/nemt-pricing/internal/storage"
)

var (
	msgsConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_messages_consumed_total",
		Help: "Total quote events consumed",
	})
	msgsInvalid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_messages_invalid_total",
		Help: "Total invalid messages received",
	})
	sinkWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_sink_writes_total",
		Help: "Total quotes persisted to the billing sink",
	})
	sinkErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consumer_sink_errors_total",
		Help: "Total billing sink errors",
	})
)

func init() {
	prometheus.MustRegister(msgsConsumed, msgsInvalid, sinkWrites, sinkErrors)
}

func main() {
	var metricsAddr string
	flag.StringVar(&metricsAddr, "metrics-addr", ":2112", "address to serve prometheus metrics on")
	flag.Parse()

	brokersEnv := os.Getenv("KAFKA_BROKERS")
	if brokersEnv == "" {
		brokersEnv = os.Getenv("KAFKA_BROKER")
	}
	brokers := []string{}
	if brokersEnv != "" {
		for _, b := range strings.Split(brokersEnv, ",") {
			if s := strings.TrimSpace(b); s != "" {
				brokers = append(brokers, s)
			}
		}
	} else {
		brokers = []string{"localhost:9092"}
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "quote-events"
	}
	group := os.Getenv("KAFKA_GROUP")
	if group == "" {
		group = "quote-billing-consumer"
	}

	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		log.Fatal("PG_DSN is required")
	}
	store, err := storage.NewPostgresStore(dsn)
	if err != nil {
		log.Fatalf("postgres open error: %v", err)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rc := redis.NewClient(&redis.Options{Addr: redisAddr})
	sink := &billingSink{store: store, redis: rc}

	// metrics and health server
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := rc.Ping(r.Context()).Err(); err != nil {
				http.Error(w, "redis not ready", 503)
				return
			}
			w.WriteHeader(200)
			w.Write([]byte("ready"))
		})
		log.Printf("metrics/health listening on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: brokers, Topic: topic, GroupID: group, MinBytes: 10e3, MaxBytes: 10e6})
	defer func() {
		_ = r.Close()
		_ = rc.Close()
	}()

	log.Printf("consumer listening topic=%s brokers=%v group=%s", topic, brokers, group)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("shutting down consumer")
				return
			}
			log.Printf("kafka read error: %v; backing off %s", err, backoff)
			time.Sleep(backoff)
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second

		msgsConsumed.Inc()

		var q models.Quote
		if err := json.Unmarshal(m.Value, &q); err != nil || q.ID == "" {
			msgsInvalid.Inc()
			log.Printf("invalid message: %v", err)
			continue
		}

		if err := persistWithRetry(ctx, sink, &q, 3, 200*time.Millisecond); err != nil {
			sinkErrors.Inc()
			log.Printf("billing write failed for quote=%s: %v", q.ID, err)
			continue
		}
		sinkWrites.Inc()
	}
}

// QuoteSink is the small surface the retry loop needs, fakeable in tests.
type QuoteSink interface {
	InsertQuote(ctx context.Context, q *models.Quote) error
	CacheLatest(ctx context.Context, q *models.Quote) error
}

type billingSink struct {
	store *storage.PostgresStore
	redis *redis.Client
}

func (b *billingSink) InsertQuote(ctx context.Context, q *models.Quote) error {
	return b.store.SaveQuote(q)
}

func (b *billingSink) CacheLatest(ctx context.Context, q *models.Quote) error {
	if q.AccountID == "" {
		return nil
	}
	v, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return b.redis.Set(ctx, "quote:latest:"+q.AccountID, v, 24*time.Hour).Err()
}

// persistWithRetry writes a quote through the sink with retry/backoff.
// A successful insert is never repeated: only the step that failed is
// retried, so a transient cache blip cannot turn into a duplicate insert.
func persistWithRetry(ctx context.Context, sink QuoteSink, q *models.Quote, attempts int, delay time.Duration) error {
	inserted := false
	for i := 0; i < attempts; i++ {
		if !inserted {
			if err := sink.InsertQuote(ctx, q); err != nil {
				if i == attempts-1 {
					return err
				}
				time.Sleep(delay)
				delay *= 2
				continue
			}
			inserted = true
		}
		if err := sink.CacheLatest(ctx, q); err != nil {
			if i == attempts-1 {
				return err
			}
			time.Sleep(delay)
			delay *= 2
			continue
		}
		return nil
	}
	return nil
}
