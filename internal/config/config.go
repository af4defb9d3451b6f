package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Debug   bool    `yaml:"debug" env:"DEBUG"`
	JWT     JWT     `yaml:"jwt"`
	Limiter Limiter `yaml:"limiter"`
	Server  Server  `yaml:"server"`
	DB      DB      `yaml:"db"`
	Mongo   Mongo   `yaml:"mongo"`
	Session Session `yaml:"session"`
	SMTP    SMTP    `yaml:"smtp"`
	Tasks   Tasks   `yaml:"tasks"`
	CORS    CORS    `yaml:"cors"`
}

type JWT struct {
	Secret string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TTL    time.Duration `yaml:"ttl" env-default:"1h"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
	// LoginPerMinute caps login attempts per client IP.
	LoginPerMinute int `yaml:"login_per_minute" env-default:"10"`
}

type Server struct {
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"10"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	AcquireTimeout  time.Duration `yaml:"acquire_timeout" env-default:"3s"`
}

type Mongo struct {
	URI      string        `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string        `yaml:"database" env-default:"moviehub"`
	Timeout  time.Duration `yaml:"timeout" env-default:"5s"`
}

type Session struct {
	// Backend is either "memory" or "badger".
	Backend    string        `yaml:"backend" env-default:"memory"`
	CookieName string        `yaml:"cookie_name" env-default:"sid"`
	TTL        time.Duration `yaml:"ttl" env-default:"24h"`
	Secure     bool          `yaml:"secure"`
	BadgerPath string        `yaml:"badger_path" env-default:"data/sessions"`
}

type SMTP struct {
	Enabled      bool          `yaml:"enabled"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port" env-default:"587"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env-default:"Moviehub <no-reply@moviehub.local>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type Tasks struct {
	Workers   int `yaml:"workers" env-default:"3"`
	QueueSize int `yaml:"queue_size" env-default:"100"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env-default:"*"`
}

func MustLoad(configPath string) *Config {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}

	return &cfg
}
