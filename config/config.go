package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"gooviral.app/checkout/driver"
)

const ServerStartPort = ":8080"

type Config struct {
	Stripe   StripeConfig
	R2       R2Config
	Mail     MailConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Server   ServerConfig
}

type StripeConfig struct {
	SecretKey       string        `mapstructure:"secret_key"`
	WebhookSecret   string        `mapstructure:"webhook_secret"`
	PriceID         string        `mapstructure:"price_id"`
	Currency        string        `mapstructure:"currency"`
	RedirectURL     string        `mapstructure:"redirect_url"`
	ReplayTolerance time.Duration `mapstructure:"replay_tolerance"`
}

type R2Config struct {
	AccountID     string `mapstructure:"account_id"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	ObjectKey     string `mapstructure:"object_key"`
	LinkDaysValid int    `mapstructure:"link_days_valid"`
}

type MailConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	AdminEmail string `mapstructure:"admin_email"`
	AdminName  string `mapstructure:"admin_name"`
	Subject    string `mapstructure:"subject"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	APIKey         string   `mapstructure:"api_key"`
	CallTimeout    time.Duration
}

func ProvideApplicationConfig() (*Config, error) {

	viper.SetConfigFile("./config.yaml")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("stripe.currency", "usd")
	viper.SetDefault("stripe.replay_tolerance", "5m")
	viper.SetDefault("r2.link_days_valid", 7)
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("nats.url", nats.DefaultURL)
	viper.SetDefault("server.address", ServerStartPort)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Outbound calls to Stripe, the storage signer and the mailer all run
	// under this bound so slow downstreams cannot occupy workers forever.
	config.Server.CallTimeout = 10 * time.Second

	return &config, nil
}

func ProvidePostgresConn(appConfig *Config) (driver.PostgresPool, error) {

	conn, err := driver.ConnectSQL(appConfig.Postgres.URL)
	if err != nil {
		return nil, err
	}

	return conn.Pool, nil
}

func ProvideRedis(appConfig *Config) (*redis.Client, error) {
	return driver.ConnectRedis(appConfig.Redis.Addr, appConfig.Redis.Password, 0)
}

func ProvideNATS(appConfig *Config) (*nats.Conn, error) {

	nc, err := nats.Connect(appConfig.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return nc, nil
}

func NewLogger() *zap.Logger {

	logger, _ := zap.NewProduction()
	return logger
}
