package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	"zyntra/internal/sim"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	assistantKeyENV   = "API_KEY"
	envPrefix         = "ZYNTRA"
)

// Config ...
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Service struct {
		Host       string `mapstructure:"host"`
		PublicPort int    `mapstructure:"public_port"`
		AdminPort  int    `mapstructure:"admin_port"`
	} `mapstructure:"service"`

	Market    MarketConfig    `mapstructure:"market"`
	Staking   StakingConfig   `mapstructure:"staking"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Leverage  LeverageConfig  `mapstructure:"leverage"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Recorder  RecorderConfig  `mapstructure:"recorder"`
	Tracing   TracingConfig   `mapstructure:"tracing"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"postgres"`
}

type MarketConfig struct {
	Symbol           string        `mapstructure:"symbol"`
	StartPrice       float64       `mapstructure:"start_price"` // 0 = цена из каталога монет
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	DriftK           float64       `mapstructure:"drift_k"`
	Depth            int           `mapstructure:"depth"`
	SpreadStep       float64       `mapstructure:"spread_step"`
	Jitter           float64       `mapstructure:"jitter"`
	Seed             uint64        `mapstructure:"seed"` // 0 = от времени
	TradeMinInterval time.Duration `mapstructure:"trade_min_interval"`
	TradeMaxInterval time.Duration `mapstructure:"trade_max_interval"`
	TapeSize         int           `mapstructure:"tape_size"`
	ChartInterval    string        `mapstructure:"chart_interval"`
	ChartTheme       string        `mapstructure:"chart_theme"`
}

func (m MarketConfig) Book() sim.BookConfig {
	return sim.BookConfig{Depth: m.Depth, Step: m.SpreadStep, Jitter: m.Jitter}
}

type StakingConfig struct {
	CompoundBonusPct float64       `mapstructure:"compound_bonus_pct"`
	ConfirmDelay     time.Duration `mapstructure:"confirm_delay"`
}

type AuthConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type RiskConfig struct {
	// ширина зоны предупреждения у цены ликвидации, %
	WarnPct float64 `mapstructure:"warn_pct"`
}

type LeverageConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

type AssistantConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	Model        string        `mapstructure:"model"`
	Endpoint     string        `mapstructure:"endpoint"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RPS          float64       `mapstructure:"rps"`
	Burst        int           `mapstructure:"burst"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RecorderConfig struct {
	// писать каждый N-й снапшот
	Every int `mapstructure:"every"`
}

type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// NewConfig читает configs/<CONFIG_FILE> (если есть), потом .env и переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := getenvDefault(configFilePathENV, "values_local.yaml")
	path := configFileName
	if !strings.ContainsRune(configFileName, os.PathSeparator) {
		path = "configs/" + configFileName
	}
	return Load(path)
}

// Load: то же, но с явным путём. Отсутствующий файл не ошибка: работаем на дефолтах.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !isNotFound(err) {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var pe *os.PathError
	return errors.As(err, &pe)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.public_port", 8080)
	v.SetDefault("service.admin_port", 8081)

	v.SetDefault("market.symbol", "BTC")
	v.SetDefault("market.start_price", 0)
	v.SetDefault("market.tick_interval", "1s")
	v.SetDefault("market.drift_k", sim.DefaultDriftK)
	v.SetDefault("market.depth", sim.DefaultDepth)
	v.SetDefault("market.spread_step", sim.DefaultSpreadStep)
	v.SetDefault("market.jitter", sim.DefaultJitter)
	v.SetDefault("market.seed", 0)
	v.SetDefault("market.trade_min_interval", sim.DefaultTradeMinInterval.String())
	v.SetDefault("market.trade_max_interval", sim.DefaultTradeMaxInterval.String())
	v.SetDefault("market.tape_size", sim.DefaultTapeSize)
	v.SetDefault("market.chart_interval", "15")
	v.SetDefault("market.chart_theme", "dark")

	v.SetDefault("staking.compound_bonus_pct", 5.0)
	v.SetDefault("staking.confirm_delay", "1500ms")
	v.SetDefault("auth.delay", "1500ms")
	v.SetDefault("risk.warn_pct", 2.0)
	v.SetDefault("leverage.min", 1)
	v.SetDefault("leverage.max", 125)

	v.SetDefault("assistant.model", "gemini-2.5-flash")
	v.SetDefault("assistant.endpoint", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("assistant.system_prompt", "You are a helpful, concise, and professional crypto assistant for Zyntra exchange. Keep answers short and relevant to trading.")
	v.SetDefault("assistant.timeout", "15s")
	v.SetDefault("assistant.rps", 1.0)
	v.SetDefault("assistant.burst", 3)
	v.SetDefault("assistant.cache_ttl", "10m")

	v.SetDefault("redis.db", 0)
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("recorder.every", 10)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)
}

func overrideFromEnv(cfg *Config) {
	if token := os.Getenv(tokenTelegramENV); token != "" {
		cfg.Telegram.Token = token
	}
	if v := os.Getenv(chatTelegramENV); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if key := os.Getenv(assistantKeyENV); key != "" {
		cfg.Assistant.APIKey = key
	}
}

func (c *Config) Validate() error {
	if err := c.Market.Book().Validate(); err != nil {
		return errors.Wrap(err, "market")
	}
	if c.Market.TickInterval <= 0 {
		return errors.New("market.tick_interval must be positive")
	}
	if c.Market.TradeMinInterval <= 0 || c.Market.TradeMinInterval > c.Market.TradeMaxInterval {
		return errors.Errorf("bad trade interval range %s..%s", c.Market.TradeMinInterval, c.Market.TradeMaxInterval)
	}
	if c.Leverage.Min < 1 || c.Leverage.Max < c.Leverage.Min {
		return errors.Errorf("bad leverage bounds %d..%d", c.Leverage.Min, c.Leverage.Max)
	}
	if c.Market.StartPrice < 0 {
		return errors.New("market.start_price must not be negative")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
