package config

import (
	"github.com/spf13/viper"
)

// Deployment-level configuration comes in as environment variables set
// on the pod. The attendance phase-in dates are deliberately not here:
// admins edit them at runtime, so they live in the system_config table
// and are loaded per request.

type Config struct {
	DBHost              string `mapstructure:"DB_HOST"`
	DBPort              string `mapstructure:"DB_PORT"`
	DBUser              string `mapstructure:"DB_USER"`
	DBPassword          string `mapstructure:"DB_PASSWORD"`
	DBName              string `mapstructure:"DB_NAME"`
	ServerPort          string `mapstructure:"SERVER_PORT"`
	AWSRegion           string `mapstructure:"AWS_REGION"`
	AWSEndpoint         string `mapstructure:"AWS_ENDPOINT"`
	LedgerSQSQueueURL   string `mapstructure:"LEDGER_SQS_QUEUE_URL"`
	EmailSQSQueueURL    string `mapstructure:"EMAIL_SQS_QUEUE_URL"`
	LegacyPayrollAPIURL string `mapstructure:"LEGACY_PAYROLL_API_URL"`
	AdminEmail          string `mapstructure:"ADMIN_EMAIL"`
	SenderEmail         string `mapstructure:"SENDER_EMAIL"`
	IsLocalDev          bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables, with
// defaults that match the local docker-compose setup.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("LEDGER_SQS_QUEUE_URL", "http://localstack:4566/000000000000/ledger-queue")
	viper.SetDefault("EMAIL_SQS_QUEUE_URL", "http://localstack:4566/000000000000/email-queue")
	viper.SetDefault("LEGACY_PAYROLL_API_URL", "http://localhost:8081/")
	viper.SetDefault("ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("SENDER_EMAIL", "no-reply@example.com")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
