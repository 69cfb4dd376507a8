package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string        `yaml:"env" env-default:"local"`
	CheckInterval time.Duration `yaml:"check_interval" env-default:"30m"`
	RabbitMQ      `yaml:"rabbitmq"`
	Postgres      `yaml:"postgres"`
	HTTPServer    `yaml:"http_server"`
	Redis         `yaml:"redis"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"postgres"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"password" env-required:"true"`
	DBName   string `yaml:"dbname" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type RabbitMQ struct {
	URL            string `yaml:"url" env-required:"true"`
	JobsQueue      string `yaml:"jobs_queue" env-default:"scrape_jobs"`
	ResultsQueue   string `yaml:"results_queue" env-default:"scrape_results"`
	WorkerPoolSize int    `yaml:"worker_pool_size" env-default:"10"`
}

type Redis struct {
	Addr        string        `yaml:"addr" env-default:"redis:6379"`
	Db          int           `yaml:"db" env-default:"1"`
	DefaultTTL  time.Duration `yaml:"default_ttl" env-default:"1m"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl" env-default:"15s"`
}

func MustLoad(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", configPath)
	}

	return &cfg
}
