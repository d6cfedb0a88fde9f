package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration parameters taken from environment
// variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort     string `envconfig:"HTTP_PORT" default:"4242"`
	APISecretKey string `envconfig:"API_SECRET_KEY"`

	// Local data files. Retrieval of these files is outside this service;
	// drop the miRTarBase MTI export and the HGNC complete set next to
	// the binary or mount them in.
	MirtarbaseSource string `envconfig:"MIRTARBASE_SOURCE" default:"data/miRTarBase_MTI.csv"`
	HGNCSource       string `envconfig:"HGNC_SOURCE" default:"data/hgnc_complete_set.txt"`

	// Scheduled BEL export. Empty schedule disables the job.
	ExportCronSchedule string `envconfig:"EXPORT_CRON_SCHEDULE"`

	// S3-compatible storage for exported BEL graphs. Optional; without a
	// bucket the export endpoint returns the graph inline only.
	ExportS3Key    string `envconfig:"EXPORT_S3_KEY"`
	ExportS3Secret string `envconfig:"EXPORT_S3_SECRET"`
	ExportS3URL    string `envconfig:"EXPORT_S3_URL"`
	ExportS3Region string `envconfig:"EXPORT_S3_REGION"`
	ExportS3Bucket string `envconfig:"EXPORT_S3_BUCKET"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// ExportEnabled reports whether exported graphs can be uploaded.
func (c *Config) ExportEnabled() bool {
	return c.ExportS3Bucket != "" && c.ExportS3URL != ""
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
