package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddress     = ":3000"
	defaultDestinationsURL = "http://localhost:3001"
	defaultPricingURL      = "http://localhost:3002"
	defaultItinerariesURL  = "http://localhost:3003"
	defaultPageLimit       = 100
	defaultIdempotencyTTL  = 600
	defaultEventsTopic     = "itinerary-events"
	defaultGroupID         = "tripcomposer-worker"
	defaultServiceName     = "tripcomposer"
)

type Config struct {
	Env         string            `yaml:"env"`
	HTTP        HTTPConfig        `yaml:"http"`
	GRPC        GRPCConfig        `yaml:"grpc"`
	Upstreams   UpstreamsConfig   `yaml:"upstreams"`
	Composite   CompositeConfig   `yaml:"composite"`
	Redis       RedisConfig       `yaml:"redis"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Worker      WorkerConfig      `yaml:"worker"`
	Tracing     TracingConfig     `yaml:"tracing"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GRPCConfig configures the gRPC health endpoint. An empty address disables it.
type GRPCConfig struct {
	Address string `yaml:"address"`
}

type UpstreamsConfig struct {
	Destinations UpstreamConfig `yaml:"destinations"`
	Pricing      UpstreamConfig `yaml:"pricing"`
	Itineraries  UpstreamConfig `yaml:"itineraries"`
}

type UpstreamConfig struct {
	BaseURL string `yaml:"base_url"`
}

type CompositeConfig struct {
	// PageLimit is the limit sent with city and season listings. Only the
	// first page is read.
	PageLimit int `yaml:"page_limit"`
}

// RedisConfig configures the idempotency lock store. An empty address disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type IdempotencyConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// KafkaConfig configures itinerary events. No brokers means no events.
type KafkaConfig struct {
	Brokers     []string `yaml:"brokers"`
	EventsTopic string   `yaml:"events_topic"`
	GroupID     string   `yaml:"group_id"`
}

type WorkerConfig struct {
	ReconcileOrphans bool `yaml:"reconcile_orphans"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	Insecure     bool    `yaml:"insecure"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"HTTP_ADDRESS":             &c.HTTP.Address,
		"DESTINATIONS_SERVICE_URL": &c.Upstreams.Destinations.BaseURL,
		"PRICING_SERVICE_URL":      &c.Upstreams.Pricing.BaseURL,
		"ITINERARIES_SERVICE_URL":  &c.Upstreams.Itineraries.BaseURL,
	}
	for name, target := range overrides {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = defaultHTTPAddress
	}
	if c.Upstreams.Destinations.BaseURL == "" {
		c.Upstreams.Destinations.BaseURL = defaultDestinationsURL
	}
	if c.Upstreams.Pricing.BaseURL == "" {
		c.Upstreams.Pricing.BaseURL = defaultPricingURL
	}
	if c.Upstreams.Itineraries.BaseURL == "" {
		c.Upstreams.Itineraries.BaseURL = defaultItinerariesURL
	}
	if c.Composite.PageLimit <= 0 {
		c.Composite.PageLimit = defaultPageLimit
	}
	if c.Idempotency.TTLSeconds <= 0 {
		c.Idempotency.TTLSeconds = defaultIdempotencyTTL
	}
	if c.Kafka.EventsTopic == "" {
		c.Kafka.EventsTopic = defaultEventsTopic
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = defaultGroupID
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaultServiceName
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
}
