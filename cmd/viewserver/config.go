package main

import (
	"time"

	"github.com/dmitrymomot/mobileview/pkg/chainsource"
	"github.com/dmitrymomot/mobileview/pkg/httpserver"
	"github.com/dmitrymomot/mobileview/pkg/logger"
	"github.com/dmitrymomot/mobileview/pkg/mobile"
	"github.com/dmitrymomot/mobileview/pkg/redis"
	"github.com/dmitrymomot/mobileview/pkg/viewresolver"
)

type appConfig struct {
	ViewPaths   []string `env:"VIEW_PATHS" envDefault:"views"`
	ViewPattern string   `env:"VIEW_PATTERN"`
	Locales     []string `env:"LOCALES" envDefault:"en"`

	S3 s3Config `envPrefix:"VIEW_S3_"`

	// ChainsFile is a YAML file with the fallback chains. Without it the
	// chains derive from MOBILE_FALLBACK.
	ChainsFile string `env:"CHAINS_FILE"`
	// ChainsRedisKey is polled for chain updates when REDIS_URL is set.
	ChainsRedisKey     string        `env:"CHAINS_REDIS_KEY" envDefault:"mobileview:fallback_chains"`
	ChainsPollInterval time.Duration `env:"CHAINS_POLL_INTERVAL" envDefault:"30s"`
}

type s3Config struct {
	Bucket         string   `env:"BUCKET"`
	Region         string   `env:"REGION" envDefault:"us-east-1"`
	AccessKeyID    string   `env:"ACCESS_KEY_ID"`
	SecretKey      string   `env:"SECRET_KEY"`
	Endpoint       string   `env:"ENDPOINT"`
	ForcePathStyle bool     `env:"FORCE_PATH_STYLE" envDefault:"false"`
	Roots          []string `env:"ROOTS" envDefault:"views"`
}

func (c s3Config) enabled() bool { return c.Bucket != "" }

func (c s3Config) storeConfig(pattern string) viewresolver.S3Config {
	return viewresolver.S3Config{
		Bucket:         c.Bucket,
		Region:         c.Region,
		AccessKeyID:    c.AccessKeyID,
		SecretKey:      c.SecretKey,
		Endpoint:       c.Endpoint,
		ForcePathStyle: c.ForcePathStyle,
		Roots:          c.Roots,
		Pattern:        pattern,
	}
}

type settings struct {
	App    appConfig
	Log    logger.Config
	HTTP   httpserver.Config
	Mobile mobile.Config
	Redis  redis.Config
}

func (c settings) chainsKey() string {
	if c.App.ChainsRedisKey == "" {
		return chainsource.DefaultRedisKey
	}
	return c.App.ChainsRedisKey
}
