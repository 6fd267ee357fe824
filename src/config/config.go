package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	Pipeline        PipelineConfig       `mapstructure:"pipeline"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Logging         LoggingConfig        `mapstructure:"logging"`
	Secrets         SecretsConfig        `mapstructure:"secrets"`
}

type ServiceType string

const (
	JOB    ServiceType = "JOB"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type ServiceType `mapstructure:"type"`
	Port string      `mapstructure:"port"`
}

type DatabasesConfig struct {
	SQL SQLConfig `mapstructure:"sql"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
	MaxConns         int    `mapstructure:"max_conns"`
	MinConns         int    `mapstructure:"min_conns"`
}

// PipelineConfig drives the daily valuation run.
type PipelineConfig struct {
	CSVPath  string `mapstructure:"csvPath"`
	Timezone string `mapstructure:"timezone"`
	Schedule string `mapstructure:"schedule"`
	Currency string `mapstructure:"currency"`
}

type ExternalClientConfig struct {
	Yahoo YahooConfig `mapstructure:"yahoo"`
	Xray  XrayConfig  `mapstructure:"xray"`
}

type YahooConfig struct {
	BaseURL        string `mapstructure:"baseUrl"`
	PriceField     string `mapstructure:"priceField"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
	CacheSeconds   int    `mapstructure:"cacheSeconds"`
	UserAgent      string `mapstructure:"userAgent"`
}

type XrayConfig struct {
	BaseURL      string   `mapstructure:"baseUrl"`
	JiraBaseURL  string   `mapstructure:"jiraBaseUrl"`
	ProjectKey   string   `mapstructure:"projectKey"`
	ClientID     string   `mapstructure:"clientId"`
	ClientSecret string   `mapstructure:"clientSecret"`
	ReportFile   string   `mapstructure:"reportFile"`
	TestCommand  []string `mapstructure:"testCommand"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SecretsConfig names AWS Secrets Manager entries. Empty ids are skipped.
type SecretsConfig struct {
	Region                   string `mapstructure:"region"`
	DatabasePasswordSecretID string `mapstructure:"databasePasswordSecretId"`
	XraySecretID             string `mapstructure:"xraySecretId"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(JOB))
	v.SetDefault("service.port", "8000")
	v.SetDefault("databases.sql.driver", "postgres")
	v.SetDefault("databases.sql.max_conns", 5)
	v.SetDefault("databases.sql.min_conns", 1)
	v.SetDefault("pipeline.csvPath", "portfolio.csv")
	v.SetDefault("pipeline.timezone", "America/Montreal")
	v.SetDefault("pipeline.schedule", "0 18 * * 1-5")
	v.SetDefault("pipeline.currency", "CAD")
	v.SetDefault("externalClients.yahoo.baseUrl", "https://query1.finance.yahoo.com")
	v.SetDefault("externalClients.yahoo.priceField", "$.chart.result[0].meta.regularMarketPrice")
	v.SetDefault("externalClients.yahoo.timeoutSeconds", 10)
	v.SetDefault("externalClients.yahoo.cacheSeconds", 300)
	// the chart endpoint throttles Go's default agent
	v.SetDefault("externalClients.yahoo.userAgent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	v.SetDefault("externalClients.xray.baseUrl", "https://xray.cloud.getxray.app")
	v.SetDefault("externalClients.xray.reportFile", "report.xml")
	v.SetDefault("externalClients.xray.testCommand", []string{"gotestsum", "--junitfile", "report.xml", "--", "./..."})
	v.SetDefault("logging.level", "info")
}

// LoadConfig reads appsettings.yaml from path and, when env is set, merges
// appsettings.<env>.yaml on top of it. Values from a .env file and from the
// process environment take precedence over both files.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	// A missing .env is the normal case outside of local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if env != "" {
		v.SetConfigName("appsettings." + env)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge %s settings: %w", env, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envName := range map[string]string{
		"externalClients.xray.clientId":     "XRAY_CLIENT_ID",
		"externalClients.xray.clientSecret": "XRAY_CLIENT_SECRET",
		"databases.sql.connection_string":   "DATABASE_URL",
	} {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, err
		}
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c SQLConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	switch c.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			c.Username, c.Password, c.Host, c.Port, c.Database)
	case "sqlite":
		return c.Database
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			c.Host, c.Username, c.Password, c.Database, c.Port)
	}
}
