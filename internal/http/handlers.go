package httpapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/nemt-pricing/internal/calendar"
	"github.com/example/nemt-pricing/internal/config"
	"github.com/example/nemt-pricing/internal/dispatch"
	"github.com/example/nemt-pricing/internal/distance"
	"github.com/example/nemt-pricing/internal/fare"
	"github.com/example/nemt-pricing/internal/ingest"
	"github.com/example/nemt-pricing/internal/jurisdiction"
	"github.com/example/nemt-pricing/internal/maps"
	"github.com/example/nemt-pricing/internal/models"
	"github.com/example/nemt-pricing/internal/observability"
	"github.com/example/nemt-pricing/internal/payments"
	"github.com/example/nemt-pricing/internal/pricing"
	"github.com/example/nemt-pricing/internal/storage"
)

type Server struct {
	Facade  *pricing.Facade
	Store   storage.QuoteStore
	Kafka   *ingest.KafkaProducer
	WSReg   *dispatch.WSRegistry
	Webhook *dispatch.WebhookNotifier
	Stripe  *payments.StripeClient

	logger *slog.Logger
	mux    *mux.Router
}

// NewServer wires the pricing service from config. Missing collaborators
// degrade: no maps key means estimated distances and defaulted
// jurisdictions, no PG_DSN means the in-memory store.
func NewServer(cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	rates := fare.RateTable{
		BaseFarePerLegCents:      cfg.BaseFareCents,
		PrimaryPerMileCents:      cfg.PrimaryPerMileCents,
		OutsidePerMileCents:      cfg.OutsidePerMileCents,
		CountyFeeCents:           cfg.CountyFeeCents,
		AfterHoursPremiumCents:   cfg.AfterHoursCents,
		EmergencyFeeCents:        cfg.EmergencyCents,
		WheelchairRentalFeeCents: cfg.WheelchairCents,
		HolidaySurchargeCents:    cfg.HolidayCents,
		VeteranDiscountRate:      cfg.VeteranDiscountRate,
		DayStartHour:             cfg.DayStartHour,
		DayEndHour:               cfg.DayEndHour,
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	var (
		router   distance.Router
		geocoder jurisdiction.Geocoder
	)
	if cfg.GoogleMapsAPIKey != "" {
		gc, err := maps.NewGoogleClient(cfg.GoogleMapsAPIKey, cfg.GoogleMapsRegion)
		if err != nil {
			return nil, err
		}
		router = gc
		geocoder = gc
	} else if cfg.OSRMEndpoint != "" {
		router = distance.NewOSRMRouter(cfg.OSRMEndpoint)
	}
	if geocoder != nil && cfg.RedisAddr != "" {
		geocoder = maps.NewCachedGeocoder(geocoder, maps.NewRedisKV(cfg.RedisAddr, cfg.RedisPassword), cfg.GeocodeCacheTTL)
	}

	facade := pricing.NewFacade(
		distance.NewResolver(router),
		jurisdiction.NewClassifier(geocoder, cfg.PrimaryCounty),
		calendar.NewEngine(rates.HolidaySurchargeCents),
		fare.NewComposer(rates),
		loc,
		cfg.CollaboratorTimeout,
	)

	var store storage.QuoteStore
	if cfg.PGDSN != "" {
		ps, err := storage.NewPostgresStore(cfg.PGDSN)
		if err != nil {
			logger.Warn("postgres unavailable, falling back to memory store", "error", err)
		} else {
			store = ps
		}
	}
	if store == nil {
		store = storage.NewMemoryStore()
	}

	var kp *ingest.KafkaProducer
	if len(cfg.KafkaBrokers) > 0 {
		kp = ingest.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	var wh *dispatch.WebhookNotifier
	if cfg.WebhookEndpoint != "" {
		wh = dispatch.NewWebhookNotifier(cfg.WebhookEndpoint, cfg.WebhookToken)
	}

	var sc *payments.StripeClient
	if cfg.StripeAPIKey != "" {
		sc = payments.NewStripeClient(cfg.StripeAPIKey)
	}

	s := &Server{
		Facade:  facade,
		Store:   store,
		Kafka:   kp,
		WSReg:   dispatch.NewWSRegistry(logger),
		Webhook: wh,
		Stripe:  sc,
		logger:  logger,
		mux:     mux.NewRouter(),
	}
	s.registerMiddleware()
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/v1/quotes", s.handleQuote).Methods("POST")
	s.mux.HandleFunc("/api/v1/quotes/{id}", s.handleGetQuote).Methods("GET")
	s.mux.HandleFunc("/api/v1/quotes/{id}/deposit", s.handleDeposit).Methods("POST")
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) }).Methods("GET")
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/ws/{client_id}", s.handleWS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req models.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	res, err := s.Facade.Quote(r.Context(), req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.logger.Error("quote failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	observability.QuotesTotal.Inc()
	observability.QuoteDuration.Observe(time.Since(start).Seconds())

	quote := &models.Quote{
		ID:        newID(),
		AccountID: req.AccountID,
		Request:   req,
		Breakdown: res.Breakdown,
		Summary:   res.Summary,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.SaveQuote(quote); err != nil {
		s.logger.Error("quote save failed", "quote_id", quote.ID, "error", err)
	}
	if s.Kafka != nil {
		if err := s.Kafka.PublishQuote(quote); err != nil {
			s.logger.Warn("quote publish failed", "quote_id", quote.ID, "error", err)
		}
	}
	if s.Webhook != nil {
		if err := s.Webhook.Notify(r.Context(), quote); err != nil {
			s.logger.Warn("webhook notify failed", "quote_id", quote.ID, "error", err)
		}
	}
	s.WSReg.Broadcast(quote)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q, err := s.Store.GetQuote(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "quote not found", http.StatusNotFound)
			return
		}
		s.logger.Error("quote load failed", "quote_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(q)
}

type depositRequest struct {
	CustomerID string `json:"customer_id"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	if s.Stripe == nil {
		http.Error(w, "payments not configured", http.StatusServiceUnavailable)
		return
	}
	id := mux.Vars(r)["id"]
	q, err := s.Store.GetQuote(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "quote not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var dr depositRequest
	if err := json.NewDecoder(r.Body).Decode(&dr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	depositID, err := s.Stripe.HoldDeposit(r.Context(), q.Breakdown.TotalCents, dr.CustomerID)
	if err != nil {
		s.logger.Error("deposit hold failed", "quote_id", id, "error", err)
		http.Error(w, "deposit hold failed", http.StatusBadGateway)
		return
	}
	observability.DepositsHeld.Inc()

	q.DepositID = depositID
	if err := s.Store.UpdateQuote(q); err != nil {
		s.logger.Error("deposit save failed", "quote_id", id, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"quote_id": id, "deposit_id": depositID})
}

var upgrader = websocket.Upgrader{}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["client_id"]
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "upgrade failed", http.StatusBadRequest)
		return
	}
	s.WSReg.Add(id, conn)
}

func newID() string { b := make([]byte, 8); _, _ = rand.Read(b); return hex.EncodeToString(b) }
