package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/envutil"
	"github.com/dgellow/review-front/internal/log"
	"github.com/joho/godotenv"
)

// Config holds the resolved application configuration. Loaded once at
// startup from the environment and treated as immutable.
type Config struct {
	// Addr is the listen address of the frontend server
	Addr string

	// APIBaseURL is the base URL of the code-review backend API
	APIBaseURL string

	// SigningKey signs the token cookie and CSRF tokens
	SigningKey []byte

	// CSRFTokenTTL bounds the validity of logout-form CSRF tokens
	CSRFTokenTTL time.Duration

	// CallbackRatePerMin limits auth callback requests per client IP
	CallbackRatePerMin int
}

const (
	defaultAddr       = ":3000"
	defaultAPIBaseURL = "http://localhost:8000"

	defaultCSRFTokenTTL       = time.Hour
	defaultCallbackRatePerMin = 30

	minSigningKeyLength = 32
)

// LoadEnvFile loads environment variables from a dotenv file if it exists.
// A missing file is not an error; explicit environment wins over the file.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	log.LogInfoWithFields("config", "Loaded environment file", map[string]any{
		"path": path,
	})
	return nil
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	cfg := Config{
		Addr:               getEnv("LISTEN_ADDR", defaultAddr),
		APIBaseURL:         getEnv("API_BASE_URL", defaultAPIBaseURL),
		CSRFTokenTTL:       defaultCSRFTokenTTL,
		CallbackRatePerMin: defaultCallbackRatePerMin,
	}

	if v := os.Getenv("CSRF_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing CSRF_TOKEN_TTL: %w", err)
		}
		cfg.CSRFTokenTTL = d
	}

	if v := os.Getenv("CALLBACK_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CALLBACK_RATE_LIMIT must be a positive integer, got %q", v)
		}
		cfg.CallbackRatePerMin = n
	}

	key, err := loadSigningKey()
	if err != nil {
		return Config{}, err
	}
	cfg.SigningKey = key

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadSigningKey reads COOKIE_SIGNING_KEY. In development a random key is
// generated when unset, which invalidates stored tokens across restarts.
func loadSigningKey() ([]byte, error) {
	if key := os.Getenv("COOKIE_SIGNING_KEY"); key != "" {
		if len(key) < minSigningKeyLength {
			return nil, fmt.Errorf("COOKIE_SIGNING_KEY must be at least %d bytes", minSigningKeyLength)
		}
		return []byte(key), nil
	}

	if !envutil.IsDev() {
		return nil, fmt.Errorf("COOKIE_SIGNING_KEY is required outside development")
	}

	generated, err := crypto.GenerateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("generating development signing key: %w", err)
	}
	log.LogWarnWithFields("config", "Generated ephemeral signing key, stored tokens will not survive restarts", nil)
	return []byte(generated), nil
}

func validate(cfg Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if cfg.CSRFTokenTTL <= 0 {
		return fmt.Errorf("CSRF token TTL must be positive")
	}
	return nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
