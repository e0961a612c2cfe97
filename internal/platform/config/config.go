package config

import (
	"os"
	"strings"
	"time"

	"namehaus/pkg/domain"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	// Owner is the identity allowed to call withdraw. Defaults to the deployer.
	Owner domain.Identity
	// Deployer is granted admin and lister at startup.
	Deployer domain.Identity
	// Treasury receives forwarded settlement funds.
	Treasury domain.Identity
	BaseURI  string
	// PostgresURL enables the postgres-backed stores when set.
	PostgresURL string
	// Seed lists the starter domains at startup when true.
	Seed bool

	Redis RedisConfig
	Kafka KafkaConfig
}

// RedisConfig configures the optional resolve cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional event stream sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ResolveCacheTTL bounds staleness of cached metadata URIs.
var ResolveCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("NAMEHAUS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	deployer := domain.NormalizeIdentity(os.Getenv("NAMEHAUS_DEPLOYER"))
	if deployer.IsZero() {
		deployer = "0xdeployer"
	}
	owner := domain.NormalizeIdentity(os.Getenv("NAMEHAUS_OWNER"))
	if owner.IsZero() {
		owner = deployer
	}
	treasury := domain.NormalizeIdentity(os.Getenv("NAMEHAUS_TREASURY"))
	if treasury.IsZero() {
		treasury = deployer
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		Deployer:      deployer,
		Owner:         owner,
		Treasury:      treasury,
		BaseURI:       os.Getenv("NAMEHAUS_BASE_URI"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		Seed:          os.Getenv("NAMEHAUS_SEED") == "true",
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   os.Getenv("KAFKA_EVENTS_TOPIC"),
		},
	}
}
