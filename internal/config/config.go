package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port               int           `yaml:"port" default:"8080"`
		Host               string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout        time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout       time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout        time.Duration `yaml:"idle_timeout" default:"60s"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Database struct {
		URL             string        `yaml:"url"`
		MaxOpenConns    int           `yaml:"max_open_conns" default:"25"`
		MaxIdleConns    int           `yaml:"max_idle_conns" default:"5"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"30m"`
	} `yaml:"database"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
	} `yaml:"redis"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"gemini"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"gemini-1.5-flash"`
		MaxTokens   int           `yaml:"max_tokens" default:"4096"`
		Temperature float32       `yaml:"temperature" default:"0.2"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"llm"`

	Temporal struct {
		Address   string `yaml:"address"`
		Namespace string `yaml:"namespace" default:"default"`
		TaskQueue string `yaml:"task_queue" default:"industry-insights"`
	} `yaml:"temporal"`

	Insights struct {
		RefreshInterval time.Duration `yaml:"refresh_interval" default:"168h"` // 7 days
		SweepSchedule   string        `yaml:"sweep_schedule" default:"0 6 * * 0"`
		CronSecret      string        `yaml:"cron_secret"`
		TxTimeout       time.Duration `yaml:"tx_timeout" default:"10s"`
		SweepBudget     time.Duration `yaml:"sweep_budget" default:"5m"`
		AttemptTimeout  time.Duration `yaml:"attempt_timeout" default:"30s"`
		MaxAttempts     int           `yaml:"max_attempts" default:"3"`
	} `yaml:"insights"`

	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`

	RateLimit struct {
		Enabled           bool          `yaml:"enabled" default:"true"`
		RequestsPerMinute int           `yaml:"requests_per_minute" default:"60"`
		Window            time.Duration `yaml:"window" default:"1m"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second
	config.Server.CORSAllowedOrigins = []string{"*"}

	config.Database.MaxOpenConns = 25
	config.Database.MaxIdleConns = 5
	config.Database.ConnMaxLifetime = 30 * time.Minute

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	config.LLM.Provider = "gemini"
	config.LLM.Model = "gemini-1.5-flash"
	config.LLM.MaxTokens = 4096
	config.LLM.Temperature = 0.2
	config.LLM.Timeout = 30 * time.Second

	config.Temporal.Namespace = "default"
	config.Temporal.TaskQueue = "industry-insights"

	config.Insights.RefreshInterval = 7 * 24 * time.Hour
	config.Insights.SweepSchedule = "0 6 * * 0"
	config.Insights.TxTimeout = 10 * time.Second
	config.Insights.SweepBudget = 5 * time.Minute
	config.Insights.AttemptTimeout = 30 * time.Second
	config.Insights.MaxAttempts = 3

	config.RateLimit.Enabled = true
	config.RateLimit.RequestsPerMinute = 60
	config.RateLimit.Window = time.Minute

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Unset env vars leave their ${VAR} placeholder behind; treat those
	// fields as unconfigured
	for _, p := range []*string{
		&config.Database.URL,
		&config.Redis.URL,
		&config.Redis.Password,
		&config.LLM.APIKey,
		&config.Temporal.Address,
		&config.Insights.CronSecret,
		&config.Auth.JWTSecret,
	} {
		if strings.HasPrefix(*p, "${") {
			*p = ""
		}
	}
	if config.Redis.URL == "" {
		config.Redis.URL = "redis://localhost:6379"
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.CORSAllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSAllowedOrigins = append(c.Server.CORSAllowedOrigins, origin)
			}
		}
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Database.URL = dbURL
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	// Also support GEMINI_API_KEY for compatibility
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if address := os.Getenv("TEMPORAL_ADDRESS"); address != "" {
		c.Temporal.Address = address
	}

	if namespace := os.Getenv("TEMPORAL_NAMESPACE"); namespace != "" {
		c.Temporal.Namespace = namespace
	}

	if taskQueue := os.Getenv("TEMPORAL_TASK_QUEUE"); taskQueue != "" {
		c.Temporal.TaskQueue = taskQueue
	}

	if cronSecret := os.Getenv("CRON_SECRET"); cronSecret != "" {
		c.Insights.CronSecret = cronSecret
	}

	if interval := os.Getenv("INSIGHT_REFRESH_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			c.Insights.RefreshInterval = d
		}
	}

	if schedule := os.Getenv("INSIGHT_SWEEP_SCHEDULE"); schedule != "" {
		c.Insights.SweepSchedule = schedule
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.Auth.JWTSecret = jwtSecret
	}

	if rpm := os.Getenv("RATE_LIMIT_RPM"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.RateLimit.RequestsPerMinute = n
		}
	}

	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
