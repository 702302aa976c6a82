package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	ExtractorNative  = "native"
	ExtractorDocconv = "docconv"
)

type Config struct {
	Port      string `env:"PORT"       envDefault:"8000"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ModelProvider string        `env:"MODEL_PROVIDER" envDefault:"ollama"`
	ModelBaseURL  string        `env:"MODEL_BASE_URL" envDefault:"http://localhost:11434"`
	ModelName     string        `env:"MODEL_NAME"     envDefault:"gemma3:27b-16k"`
	ModelAPIKey   string        `env:"MODEL_API_KEY"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	ModelTimeout  time.Duration `env:"MODEL_TIMEOUT"  envDefault:"60m"`

	ChunkMaxChars     int `env:"CHUNK_MAX_CHARS"     envDefault:"40000"`
	ChunkOverlapChars int `env:"CHUNK_OVERLAP_CHARS" envDefault:"200"`
	Concurrency       int `env:"CONCURRENCY"         envDefault:"2"`

	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryBaseDelay   time.Duration `env:"RETRY_BASE_DELAY"   envDefault:"5s"`
	RetryMaxDelay    time.Duration `env:"RETRY_MAX_DELAY"    envDefault:"2m"`

	MetaThresholdChars int  `env:"META_THRESHOLD_CHARS" envDefault:"40000"`
	MetaMaxDepth       int  `env:"META_MAX_DEPTH"       envDefault:"2"`
	FinalPass          bool `env:"FINAL_PASS"           envDefault:"true"`

	Extractor        string        `env:"EXTRACTOR"          envDefault:"native"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT"      envDefault:"60s"`
	MaxDocumentBytes int64         `env:"MAX_DOCUMENT_BYTES" envDefault:"104857600"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"    envDefault:"60m"`
	PromptsFile      string        `env:"PROMPTS_FILE"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:8501,http://localhost:5173"`

	AwsRegion    string `env:"AWS_REGION"`
	AwsAccessKey string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey string `env:"AWS_SECRET_KEY"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
}

// LoadConfig reads an optional .env file, then the environment, and validates the result.
func LoadConfig() (*Config, error) {
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

func (c *Config) Validate() error {
	if c.ChunkMaxChars <= 0 {
		return fmt.Errorf("CHUNK_MAX_CHARS must be positive, got %d", c.ChunkMaxChars)
	}
	if c.ChunkOverlapChars < 0 || c.ChunkOverlapChars >= c.ChunkMaxChars {
		return fmt.Errorf("CHUNK_OVERLAP_CHARS must be in [0, %d), got %d", c.ChunkMaxChars, c.ChunkOverlapChars)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", c.RetryMaxAttempts)
	}
	if c.MetaMaxDepth < 0 {
		return fmt.Errorf("META_MAX_DEPTH must not be negative, got %d", c.MetaMaxDepth)
	}
	switch c.ModelProvider {
	case ProviderOllama, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown MODEL_PROVIDER %q", c.ModelProvider)
	}
	switch c.Extractor {
	case ExtractorNative, ExtractorDocconv:
	default:
		return fmt.Errorf("unknown EXTRACTOR %q", c.Extractor)
	}
	return nil
}

// ObjectStoreEnabled reports whether s3:// sources can be served.
func (c *Config) ObjectStoreEnabled() bool {
	return c.AwsRegion != ""
}
