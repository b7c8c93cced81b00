package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ProxyConfig struct {
	Mode               string   `yaml:"mode"` // disabled|list|rotation
	List               []string `yaml:"list"`
	RotationURL        string   `yaml:"rotation_url"`
	RotationTTLSeconds int      `yaml:"rotation_ttl_seconds"`
	FailOpen           bool     `yaml:"fail_open"`
}

type Root struct {
	Env   string      `yaml:"env"`
	Proxy ProxyConfig `yaml:"proxy"`
	Local Config      `yaml:"local"`
	Dev   Config      `yaml:"dev"`
	Prod  Config      `yaml:"prod"`
}

type Config struct {
	Env string `yaml:"-"`

	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"log"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Finn struct {
		BaseURL   string `yaml:"base_url"`
		SearchID  string `yaml:"search_id"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"finn"`

	CLI struct {
		OutputFile string `yaml:"output_file"`
	} `yaml:"cli"`

	Pagination struct {
		MaxPages int `yaml:"max_pages"`
	} `yaml:"pagination"`

	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		Retries        int `yaml:"retries"`
	} `yaml:"http"`

	Monitor struct {
		RefreshesPerLog int  `yaml:"refreshes_per_log"`
		IntervalMS      int  `yaml:"interval_ms"`
		MaxIterations   int  `yaml:"max_iterations"`
		ContinueOnError bool `yaml:"continue_on_error"`
	} `yaml:"monitor"`

	Seen struct {
		Backend         string `yaml:"backend"` // memory|lru|redis|postgres
		Capacity        int    `yaml:"capacity"`
		RedisAddr       string `yaml:"redis_addr"`
		RedisPassword   string `yaml:"redis_password"`
		RedisDB         int    `yaml:"redis_db"`
		RedisKey        string `yaml:"redis_key"`
		RedisTTLSeconds int    `yaml:"redis_ttl_seconds"`
		PostgresDSN     string `yaml:"postgres_dsn"`
	} `yaml:"seen"`

	Proxy ProxyConfig `yaml:"proxy"`
}

// Load reads the YAML profile file at path. A missing file is not an
// error: defaults and FINN_* environment variables (optionally from a
// .env file in the working directory) are enough to run.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var root Root
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &root); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if v := os.Getenv("FINN_ENV"); v != "" {
		root.Env = v
	}

	env := strings.TrimSpace(strings.ToLower(root.Env))
	if env == "" {
		env = "local"
	}

	var p Config
	switch env {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", env)
	}
	p.Env = env

	if isProxyEmpty(p.Proxy) && !isProxyEmpty(root.Proxy) {
		p.Proxy = root.Proxy
	}

	applyEnv(&p)
	applyDefaults(&p)
	return &p, nil
}

func isProxyEmpty(px ProxyConfig) bool {
	return strings.TrimSpace(px.Mode) == "" && len(px.List) == 0 && strings.TrimSpace(px.RotationURL) == ""
}

func applyEnv(p *Config) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&p.Finn.BaseURL, "FINN_BASE_URL")
	set(&p.Finn.UserAgent, "FINN_USER_AGENT")
	set(&p.Seen.Backend, "FINN_SEEN_BACKEND")
	set(&p.Seen.RedisAddr, "FINN_REDIS_ADDR")
	set(&p.Seen.RedisPassword, "FINN_REDIS_PASSWORD")
	set(&p.Seen.PostgresDSN, "FINN_POSTGRES_DSN")
}

func applyDefaults(p *Config) {
	if p.Finn.BaseURL == "" {
		p.Finn.BaseURL = "https://www.finn.no"
	}
	if p.Finn.SearchID == "" {
		p.Finn.SearchID = "SEARCH_ID_BAP_COMMON"
	}

	if p.Server.Host == "" {
		p.Server.Host = "0.0.0.0"
	}
	if p.Server.Port == 0 {
		p.Server.Port = 7892
	}

	if p.Pagination.MaxPages <= 0 {
		p.Pagination.MaxPages = 50
	}

	if p.HTTP.TimeoutSeconds <= 0 {
		p.HTTP.TimeoutSeconds = 30
	}
	if p.HTTP.Retries < 0 {
		p.HTTP.Retries = 0
	}

	if p.Monitor.RefreshesPerLog <= 0 {
		p.Monitor.RefreshesPerLog = 50
	}
	if p.Monitor.IntervalMS < 0 {
		p.Monitor.IntervalMS = 0
	}
	if p.Monitor.MaxIterations < 0 {
		p.Monitor.MaxIterations = 0
	}

	p.Seen.Backend = strings.ToLower(strings.TrimSpace(p.Seen.Backend))
	if p.Seen.Backend == "" {
		p.Seen.Backend = "memory"
	}
	if p.Seen.Backend == "lru" && p.Seen.Capacity <= 0 {
		p.Seen.Capacity = 100_000
	}
	if p.Seen.RedisKey == "" {
		p.Seen.RedisKey = "finnparser:seen"
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}

	p.Proxy.Mode = strings.ToLower(strings.TrimSpace(p.Proxy.Mode))
	if p.Proxy.Mode == "" {
		p.Proxy.Mode = "disabled"
	}

	if len(p.Proxy.List) > 0 {
		clean := make([]string, 0, len(p.Proxy.List))
		for _, s := range p.Proxy.List {
			s = strings.TrimSpace(s)
			if s != "" {
				clean = append(clean, s)
			}
		}
		p.Proxy.List = clean
	}

	if p.Proxy.RotationTTLSeconds <= 0 {
		p.Proxy.RotationTTLSeconds = 10
	}
}
