package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all environment backed configuration
type Config struct {
	Port        string   `env:"PORT" envDefault:"5000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Storage
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME" envDefault:"medbot"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"medbot"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Auth
	JWTSecret        string        `env:"JWT_SECRET,notEmpty"`
	JWTAccessExpiry  time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"15m"`
	JWTRefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`

	// Chat model
	AIProvider    string        `env:"AI_PROVIDER" envDefault:"groq"`
	GroqAPIKey    string        `env:"GROQ_API_KEY"`
	GroqBaseURL   string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	SummaryModel  string        `env:"SUMMARY_MODEL" envDefault:"deepseek-r1-distill-llama-70b"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	OllamaBaseURL string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModel   string        `env:"OLLAMA_MODEL" envDefault:"llama3"`

	// Sentiment service
	SentimentURL     string        `env:"SENTIMENT_URL" envDefault:"http://localhost:8000"`
	SentimentTimeout time.Duration `env:"SENTIMENT_TIMEOUT" envDefault:"10s"`

	// Background summaries
	SummaryWorkers   int `env:"SUMMARY_WORKERS" envDefault:"3"`
	SummaryQueueSize int `env:"SUMMARY_QUEUE_SIZE" envDefault:"500"`

	// Push notifications
	FirebaseCredentials string `env:"FIREBASE_CREDENTIALS"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads .env (if present) and the process environment, then validates provider credentials.
// A missing credential for the selected chat provider is a startup error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express
func (c *Config) Validate() error {
	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))

	switch c.AIProvider {
	case "groq":
		if strings.TrimSpace(c.GroqAPIKey) == "" {
			return errors.New("GROQ_API_KEY is required when AI_PROVIDER=groq")
		}
	case "gemini":
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case "ollama":
	case "auto":
		if c.GroqAPIKey == "" && c.GeminiAPIKey == "" && c.OllamaBaseURL == "" {
			return errors.New("AI_PROVIDER=auto needs at least one of GROQ_API_KEY, GEMINI_API_KEY, OLLAMA_BASE_URL")
		}
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}

	switch c.StoreDriver {
	case "postgres", "mongo":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.SummaryWorkers <= 0 {
		c.SummaryWorkers = 3
	}
	if c.SummaryQueueSize <= 0 {
		c.SummaryQueueSize = 500
	}
	return nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN assembled from DB_* values
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
