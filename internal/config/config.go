package config

import (
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds all service configuration, decoded from the environment.
//
// A .env file in the working directory is loaded first when present.
type Config struct {
	Port     string `env:"PORT,default=8080"`
	Postgres string `env:"POSTGRES,required" description:"connection string for the Postgres DB"`

	JWTSecret string `env:"JWT_SECRET,required"`

	AWSRegion          string `env:"AWS_REGION,default=eu-west-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID,default="`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY,default="`
	AWSBucket          string `env:"AWS_S3_BUCKET_NAME,default="`

	// BlobDir is used by the local filesystem blob driver when no S3 bucket
	// is configured.
	BlobDir string `env:"BLOB_DIR,default=./data/blobs"`

	RedisAddr     string `env:"REDIS_ADDR,default="`
	RedisPassword string `env:"REDIS_PASSWORD,default="`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads .env (when present) and decodes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
