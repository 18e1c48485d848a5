package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Backend adapters.
const (
	BackendREST     = "rest"
	BackendDocStore = "docstore"
)

type Config struct {
	Env       string `env:"APP_ENV" env-default:"development" validate:"oneof=development production"`
	Server    ServerConfig
	Backend   BackendConfig
	Mongo     MongoConfig
	Auth      AuthConfig
	Translate TranslateConfig
	AI        AIConfig
	App       AppConfig
}

type ServerConfig struct {
	Port        string `env:"PORT"         env-default:"8080"`
	FrontendURL string `env:"FRONTEND_URL" env-default:"*"`
	RateLimit   int    `env:"RATE_LIMIT"   env-default:"100" validate:"min=1"`
}

type BackendConfig struct {
	Kind    string        `env:"BACKEND"         env-default:"rest" validate:"oneof=rest docstore"`
	URL     string        `env:"BACKEND_URL"     validate:"required_if=Kind rest"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT" env-default:"15s" validate:"min=1"`
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI" validate:"required_if=Kind docstore"`
	Database string `env:"DB_NAME"     env-default:"langobridge"`
	// Kind mirrors BackendConfig.Kind so the required_if above can see it.
	Kind string
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET"      validate:"required_if=Kind docstore"`
	TokenTTL      time.Duration `env:"JWT_TTL"         env-default:"24h"`
	CheckInterval time.Duration `env:"SESSION_CHECK"   env-default:"60s" validate:"min=1"`
	ResetTTL      time.Duration `env:"RESET_TOKEN_TTL" env-default:"1h"`
	Kind          string
}

type TranslateConfig struct {
	URL       string        `env:"TRANSLATE_URL"`
	MyMemory  bool          `env:"TRANSLATE_MYMEMORY" env-default:"true"`
	Timeout   time.Duration `env:"TRANSLATE_TIMEOUT"  env-default:"10s" validate:"min=1"`
	UserAgent string        `env:"TRANSLATE_UA"       env-default:"langobridge/translator"`
}

type AIConfig struct {
	APIKey  string `env:"AI_API_KEY"`
	BaseURL string `env:"AI_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Model   string `env:"AI_MODEL"    env-default:"deepseek/deepseek-chat-v3-0324:free"`
}

type AppConfig struct {
	StoragePath string        `env:"STORAGE_PATH" env-default:"./data/local.json" validate:"required"`
	Debounce    time.Duration `env:"SEARCH_DEBOUNCE" env-default:"300ms"`
	PageSize    int           `env:"PAGE_SIZE" env-default:"10" validate:"min=1,max=100"`
}

// Load reads .env (if present) and the environment into a validated Config.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	cfg.Mongo.Kind = cfg.Backend.Kind
	cfg.Auth.Kind = cfg.Backend.Kind

	if err := validateStruct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AIEnabled reports whether example sentences can be generated.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.AI.APIKey) != ""
}

var validate = validator.New()

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("config: validate: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", e.Namespace(), e.Tag(), e.Param()))
		}
		return fmt.Errorf("config: validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
