package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variable.
type Config struct {
	AppName  string `mapstructure:"APP_NAME"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	// MongoDB configuration
	MongoURI           string `mapstructure:"MONGO_URI"`
	MongoDatabase      string `mapstructure:"MONGO_DATABASE"`
	ProductsCollection string `mapstructure:"PRODUCTS_COLLECTION"`
	OrdersCollection   string `mapstructure:"ORDERS_COLLECTION"`
	UsersCollection    string `mapstructure:"USERS_COLLECTION"`

	// RabbitMQ configuration. An empty RABBITMQ_URL disables event publishing.
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	OutgoingExchangeName string `mapstructure:"OUTGOING_EXCHANGE_NAME"`
	OutgoingExchangeType string `mapstructure:"OUTGOING_EXCHANGE_TYPE"`
	OutgoingTopic        string `mapstructure:"OUTGOING_TOPIC"` // This will be used as routing key

	// Application settings
	LogLevel       string        `mapstructure:"LOG_LEVEL"` // e.g., "debug", "info", "warn", "error"
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)  // Path to look for the config file in
	viper.SetConfigName("app") // Name of config file (without extension)
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read in environment variables that match

	// Set default values
	viper.SetDefault("APP_NAME", "fast-backend")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017/?directConnection=true")
	viper.SetDefault("MONGO_DATABASE", "database")
	viper.SetDefault("PRODUCTS_COLLECTION", "products")
	viper.SetDefault("ORDERS_COLLECTION", "orders")
	viper.SetDefault("USERS_COLLECTION", "users")

	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("OUTGOING_EXCHANGE_NAME", "events.orders")
	viper.SetDefault("OUTGOING_EXCHANGE_TYPE", "topic")
	viper.SetDefault("OUTGOING_TOPIC", "order.created")

	viper.SetDefault("REQUEST_TIMEOUT", 10*time.Second)

	// If a config file is found, read it in.
	if err = viper.ReadInConfig(); err == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Info().Msg("No config file found, using environment variables and defaults.")
		err = nil
	} else {
		// Config file was found but another error was produced
		log.Error().Err(err).Msg("Error reading config file")
		return
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = viper.Unmarshal(&config)
	return
}
