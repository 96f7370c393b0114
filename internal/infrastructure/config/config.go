package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "APP"
	configFileEnvName = "APP_CONFIG_FILE"

	DriverFile    = "file"
	DriverMongoDB = "mongodb"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Cart    CartConfig    `mapstructure:"cart"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	OTLP    OTLPConfig    `mapstructure:"otel"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel parses Level, falling back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type StorageConfig struct {
	Driver  string `mapstructure:"driver"`
	DataDir string `mapstructure:"data_dir"`
}

type MongoDBConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type CatalogConfig struct {
	MaxLimit int `mapstructure:"max_limit"`
}

type CartConfig struct {
	// CheckStock defaults to true for mongodb and false for file storage.
	CheckStock bool `mapstructure:"check_stock"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Enabled reports whether product events should be published to Kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type OTLPConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.database", "ecommerce")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("catalog.max_limit", 100)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "products.events")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "localhost:4317")
	v.SetDefault("otel.service_name", "coder-ecommerce-api")
	v.SetDefault("otel.environment", "development")
}

// LoadConfig loads configuration from defaults, an optional YAML file, a
// .env file and APP_* environment variables, in increasing precedence.
// Command line flags override all of them.
func LoadConfig(args []string) (*Config, error) {
	const op = "config.LoadConfig"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: .env: %w", op, err)
	}

	v := viper.New()
	setDefaults(v)

	flags := pflag.NewFlagSet("coder-ecommerce-api", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a YAML config file")
	flags.String("port", "", "HTTP listen port")
	flags.String("driver", "", "storage driver: file or mongodb")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bindFlag(v, "server.port", flags.Lookup("port"))
	bindFlag(v, "storage.driver", flags.Lookup("driver"))

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := configFilePath(*configFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// check_stock has no static default, so Unmarshal cannot see it when
	// it only comes from the environment.
	if v.IsSet("cart.check_stock") {
		cfg.Cart.CheckStock = v.GetBool("cart.check_stock")
	} else {
		cfg.Cart.CheckStock = cfg.Storage.Driver == DriverMongoDB
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// bindFlag binds f only when set so an empty flag does not shadow env or
// file values.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if f != nil && f.Changed {
		_ = v.BindPFlag(key, f)
	}
}

func configFilePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(configFileEnvName)
}

func (c *Config) validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverFile, DriverMongoDB:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverFile, DriverMongoDB, c.Storage.Driver))
	}
	if c.Catalog.MaxLimit < 1 {
		errs = append(errs, errors.New("catalog.max_limit must be positive"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	return errors.Join(errs...)
}
