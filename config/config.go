package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL            string        `env:"DATABASE_URL"`
	MaxOpenConns   int           `env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	IdleTimeout    time.Duration `env:"DB_IDLE_TIMEOUT" env-default:"30s"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" env-default:"15s"`
}

type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int           `env:"SMTP_PORT" env-default:"465"`
	User     string        `env:"EMAIL_USER"`
	Password string        `env:"EMAIL_PASS"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" env-default:"20s"`
}

type CloudinaryConfig struct {
	CloudName    string        `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey       string        `env:"CLOUDINARY_API_KEY"`
	APISecret    string        `env:"CLOUDINARY_API_SECRET"`
	UploadPreset string        `env:"CLOUDINARY_UPLOAD_PRESET"`
	Timeout      time.Duration `env:"UPLOAD_TIMEOUT" env-default:"15s"`
}

type RedisConfig struct {
	// Addr left empty disables the forgot-password cooldown.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" env-default:"solid_secret_key"`
	TokenTTL      time.Duration `env:"JWT_TTL" env-default:"24h"`
	ResetCodeTTL  time.Duration `env:"RESET_CODE_TTL" env-default:"15m"`
	ResetCooldown time.Duration `env:"RESET_COOLDOWN" env-default:"60s"`
}

type Config struct {
	Port          string `env:"PORT" env-default:"8000"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	PurgeSchedule string `env:"PURGE_SCHEDULE" env-default:"@every 10m"`

	Database   DatabaseConfig
	SMTP       SMTPConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
	Auth       AuthConfig
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded, using environment variables directly.")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
