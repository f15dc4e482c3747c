package cmd

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/notify"
	"github.com/spigell/vagas/internal/store"
)

const (
	app       = "vagas"
	envPrefix = "VAGAS"
)

type Config struct {
	Source        string               `mapstructure:"source"`
	UserAgent     string               `mapstructure:"user-agent"`
	Store         *StoreConfig         `mapstructure:"store"`
	Listings      *ListingsConfig      `mapstructure:"listings"`
	Notifications *NotificationsConfig `mapstructure:"notifications"`
	Components    *ComponentsConfig    `mapstructure:"components"`
	AI            *AIConfig            `mapstructure:"ai"`
}

type StoreConfig struct {
	Driver     string          `mapstructure:"driver"`
	Path       string          `mapstructure:"path"`
	QuotaBytes int             `mapstructure:"quota-bytes"`
	Redis      *RedisConfig    `mapstructure:"redis"`
	Postgres   *PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password-file"`
	Prefix       string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
	Table   string `mapstructure:"table"`
}

type ListingsConfig struct {
	Sort        string   `mapstructure:"sort"`
	Types       []string `mapstructure:"types"`
	Modes       []string `mapstructure:"modes"`
	MinMatch    int      `mapstructure:"min-match"`
	HideApplied bool     `mapstructure:"hide-applied"`
}

type NotificationsConfig struct {
	Schedule string  `mapstructure:"schedule"`
	Chance   float64 `mapstructure:"chance"`
}

type ComponentsConfig struct {
	Dir      string `mapstructure:"dir"`
	BaseURL  string `mapstructure:"base-url"`
	PagePath string `mapstructure:"page-path"`
}

type AIConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "vagas matches job listings to a student profile, filters them and keeps your applications",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is vagas.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("source", "", "listings document: a file path or an http(s) url")
	rootCmd.PersistentFlags().String("store", "", "store driver: file, memory, redis or postgres")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("source", listing.DefaultLocation)
	viper.SetDefault("store.driver", store.DriverFile)
	viper.SetDefault("store.path", ".vagas/store.json")
	viper.SetDefault("store.quota-bytes", 0)
	viper.SetDefault("store.redis.url", "")
	viper.SetDefault("store.redis.password", "")
	viper.SetDefault("store.redis.password-file", "")
	viper.SetDefault("store.redis.prefix", "vagas:")
	viper.SetDefault("store.postgres.url", "")
	viper.SetDefault("store.postgres.url-file", "")
	viper.SetDefault("store.postgres.table", "vagas_store")
	viper.SetDefault("user-agent", "")
	viper.SetDefault("listings.sort", "match")
	viper.SetDefault("notifications.schedule", notify.DefaultSchedule)
	viper.SetDefault("notifications.chance", notify.DefaultChance)
	viper.SetDefault("components.dir", "web")
	viper.SetDefault("components.base-url", "")
	viper.SetDefault("components.page-path", "")
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Defaults and the environment are enough without a config file, but a
	// config file that exists must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Store.Redis == nil {
		config.Store.Redis = &RedisConfig{}
	}
	if config.Store.Postgres == nil {
		config.Store.Postgres = &PostgresConfig{}
	}
	if config.Listings == nil {
		config.Listings = &ListingsConfig{}
	}
	if config.Notifications == nil {
		config.Notifications = &NotificationsConfig{}
	}
	if config.Components == nil {
		config.Components = &ComponentsConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
