package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	ModePersistent = "persistent"
	ModeStateless  = "stateless"
)

var (
	ErrUnknownMode        = errors.New("config: APP_MODE must be persistent or stateless")
	ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required in persistent mode")
	ErrMissingJWTSecret   = errors.New("config: JWT_SECRET is required in persistent mode")
	ErrInvalidRateLimit   = errors.New("config: RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	ErrInvalidProxy       = errors.New("config: TRUSTED_PROXIES entries must be IPs or CIDR ranges")
)

type Config struct {
	Port             string `env:"PORT,              default=3000"`
	Env              string `env:"ENV,               default=development"`
	Mode             string `env:"APP_MODE,          default=persistent"`
	LogLevel         string `env:"LOG_LEVEL,         default=info"`
	DatabaseURL      string `env:"DATABASE_URL"`
	JWTSecret        string `env:"JWT_SECRET"`
	ProductionOrigin string `env:"PRODUCTION_ORIGIN"`
	StaticDir        string `env:"STATIC_DIR"`
	BcryptCost       int    `env:"BCRYPT_COST,       default=10"`
	Workers          int    `env:"SUBMISSION_WORKERS, default=4"`
	// TrustedProxies lists the reverse proxies whose X-Forwarded-For is
	// honoured. Empty means the socket peer is the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	AMQP      AMQPConfig
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

// RedisConfig selects the shared rate-limit store. An empty Addr keeps the
// counters in process memory.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// MongoConfig enables the submission archive when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=services_hub"`
}

// AMQPConfig enables submission notifications when URL is set.
type AMQPConfig struct {
	URL   string `env:"AMQP_URL"`
	Queue string `env:"AMQP_QUEUE, default=submissions.received"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit lookuper, so tests can feed a map.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate refuses a persistent configuration without a database or a
// token-signing secret, and any configuration that would disable the rate
// limiter or trust a malformed proxy range.
func (c *Config) Validate() error {
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return ErrInvalidRateLimit
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}

	switch c.Mode {
	case ModeStateless:
		return nil
	case ModePersistent:
	default:
		return ErrUnknownMode
	}
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// TrustedProxyNets parses TrustedProxies. A bare IP is a single-host range.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
			}
			bits := 128
			if v4 := ip.To4(); v4 != nil {
				ip, bits = v4, 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (c *Config) Persistent() bool { return c.Mode == ModePersistent }

// AllowedOrigins lists the CORS origins: the local site plus the production
// origin when one is configured.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:" + c.Port}
	if c.ProductionOrigin != "" {
		origins = append(origins, c.ProductionOrigin)
	}
	return origins
}
