package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig captures all tunable parameters for the pricing API process.
// Values are loaded from environment variables with defaults that let the
// binary run locally with the in-memory store and no collaborators.
type ServerConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Pricing
	PrimaryCounty       string
	Timezone            string
	CollaboratorTimeout time.Duration

	// Rate table overrides, all integer cents.
	BaseFareCents       int64
	PrimaryPerMileCents int64
	OutsidePerMileCents int64
	CountyFeeCents      int64
	AfterHoursCents     int64
	EmergencyCents      int64
	WheelchairCents     int64
	HolidayCents        int64
	VeteranDiscountRate float64
	DayStartHour        int
	DayEndHour          int

	// Collaborators
	GoogleMapsAPIKey string
	GoogleMapsRegion string
	OSRMEndpoint     string

	RedisAddr       string
	RedisPassword   string
	GeocodeCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	PGDSN string

	StripeAPIKey    string
	WebhookEndpoint string
	WebhookToken    string

	LogLevel      string
	RunMigrations bool
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:        ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,

		PrimaryCounty:       "Fayette County",
		Timezone:            "America/New_York",
		CollaboratorTimeout: 3 * time.Second,

		BaseFareCents:       5000,
		PrimaryPerMileCents: 300,
		OutsidePerMileCents: 450,
		CountyFeeCents:      2500,
		AfterHoursCents:     4000,
		EmergencyCents:      7500,
		WheelchairCents:     3500,
		HolidayCents:        10000,
		VeteranDiscountRate: 0.10,
		DayStartHour:        8,
		DayEndHour:          18,

		GoogleMapsRegion: "us",
		GeocodeCacheTTL:  24 * time.Hour,
		KafkaTopic:       "quote-events",
		LogLevel:         "info",
	}
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := defaultServerConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setStringFromEnv(&cfg.PrimaryCounty, "PRIMARY_COUNTY")
	setStringFromEnv(&cfg.Timezone, "PRICING_TIMEZONE")
	setDurationFromEnv(&cfg.CollaboratorTimeout, "COLLABORATOR_TIMEOUT", &errs)

	setCentsFromEnv(&cfg.BaseFareCents, "RATE_BASE_FARE_CENTS", &errs)
	setCentsFromEnv(&cfg.PrimaryPerMileCents, "RATE_PRIMARY_PER_MILE_CENTS", &errs)
	setCentsFromEnv(&cfg.OutsidePerMileCents, "RATE_OUTSIDE_PER_MILE_CENTS", &errs)
	setCentsFromEnv(&cfg.CountyFeeCents, "RATE_COUNTY_FEE_CENTS", &errs)
	setCentsFromEnv(&cfg.AfterHoursCents, "RATE_AFTER_HOURS_CENTS", &errs)
	setCentsFromEnv(&cfg.EmergencyCents, "RATE_EMERGENCY_CENTS", &errs)
	setCentsFromEnv(&cfg.WheelchairCents, "RATE_WHEELCHAIR_CENTS", &errs)
	setCentsFromEnv(&cfg.HolidayCents, "RATE_HOLIDAY_CENTS", &errs)
	setFloatFromEnv(&cfg.VeteranDiscountRate, "RATE_VETERAN_DISCOUNT", &errs)
	setIntFromEnv(&cfg.DayStartHour, "RATE_DAY_START_HOUR", &errs)
	setIntFromEnv(&cfg.DayEndHour, "RATE_DAY_END_HOUR", &errs)

	cfg.GoogleMapsAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))
	setStringFromEnv(&cfg.GoogleMapsRegion, "GOOGLE_MAPS_REGION")
	cfg.OSRMEndpoint = strings.TrimSpace(os.Getenv("OSRM_ENDPOINT"))

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setDurationFromEnv(&cfg.GeocodeCacheTTL, "GEOCODE_CACHE_TTL", &errs)

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")

	cfg.PGDSN = os.Getenv("PG_DSN")

	cfg.StripeAPIKey = os.Getenv("STRIPE_API_KEY")
	cfg.WebhookEndpoint = strings.TrimSpace(os.Getenv("BILLING_WEBHOOK_URL"))
	cfg.WebhookToken = os.Getenv("BILLING_WEBHOOK_TOKEN")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid PRICING_TIMEZONE: %w", err))
	}
	if cfg.PrimaryCounty == "" {
		errs = append(errs, fmt.Errorf("PRIMARY_COUNTY must not be empty"))
	}

	return cfg, errors.Join(errs...)
}

// Location resolves the configured pricing timezone; call after
// LoadServerConfig succeeded.
func (c ServerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setCentsFromEnv(target *int64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = n
	}
}

func setFloatFromEnv(target *float64, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = f
	}
}

func setIntFromEnv(target *int, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
