package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

type Config struct {
	HTTPAddr      string        `koanf:"http_addr"`
	StorageType   string        `koanf:"storage_type"`
	DataDir       string        `koanf:"data_dir"`
	KeyPrefix     string        `koanf:"key_prefix"`
	MongoURI      string        `koanf:"mongo_uri"`
	MongoDatabase string        `koanf:"mongo_database"`
	MongoTimeout  time.Duration `koanf:"mongo_timeout"`
	LogFile       string        `koanf:"log_file"`
	Debug         bool          `koanf:"debug"`
	SeedProducts  bool          `koanf:"seed_products"`
}

// Default is the configuration used when nothing is set in the environment.
func Default() Config {
	return Config{
		HTTPAddr:      ":8081",
		StorageType:   "keyValue",
		DataDir:       "./data",
		KeyPrefix:     "vendaninja_",
		MongoDatabase: "vendaninja",
		MongoTimeout:  5 * time.Second,
		SeedProducts:  true,
	}
}

func New() (Config, error) {
	cfg := Default()

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}
