package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Fetcher kinds
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Output    OutputConfig    `yaml:"output"`
	Queue     QueueConfig     `yaml:"queue"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Debug        bool          `yaml:"debug"`
}

type ScraperConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Country       string        `yaml:"country"`
	GeoID         string        `yaml:"geo_id"`
	CountryCode   string        `yaml:"country_code"`
	PageSize      int           `yaml:"page_size"`
	PageDelay     time.Duration `yaml:"page_delay"`
	DetailDelay   time.Duration `yaml:"detail_delay"`
	RecencyWindow time.Duration `yaml:"recency_window"`
	// Fetcher is "http" or "browser".
	Fetcher string        `yaml:"fetcher"`
	Headers HeadersConfig `yaml:"headers"`
	Browser BrowserConfig `yaml:"browser"`
}

type HeadersConfig struct {
	UserAgent      string `yaml:"user_agent"`
	Accept         string `yaml:"accept"`
	AcceptLanguage string `yaml:"accept_language"`
	AcceptEncoding string `yaml:"accept_encoding"`
	Connection     string `yaml:"connection"`
}

type BrowserConfig struct {
	Headless     bool          `yaml:"headless"`
	Timeout      time.Duration `yaml:"timeout"`
	ProxyURL     string        `yaml:"proxy_url"`
	WindowWidth  int           `yaml:"window_width"`
	WindowHeight int           `yaml:"window_height"`
}

type AnalysisConfig struct {
	TopN   int      `yaml:"top_n"`
	Skills []string `yaml:"skills"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	// EChartsScript is a local copy of echarts.min.js inlined into every
	// chart. Empty means charts load it from the go-echarts assets host.
	EChartsScript string `yaml:"echarts_script"`
}

// QueueConfig bounds the background search queue of the HTTP server.
type QueueConfig struct {
	Capacity int `yaml:"capacity"`
	MaxPages int `yaml:"max_pages"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAge         int      `yaml:"max_age"`
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Debug:        false,
		},
		Scraper: ScraperConfig{
			BaseURL:       "https://www.linkedin.com/jobs/search",
			Country:       "Portugal",
			GeoID:         "100364837",
			CountryCode:   "pt",
			PageSize:      25,
			PageDelay:     2 * time.Second,
			DetailDelay:   1 * time.Second,
			RecencyWindow: 24 * time.Hour,
			Fetcher:       FetcherHTTP,
			Headers: HeadersConfig{
				UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
				Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
				AcceptLanguage: "en-US,en;q=0.9,pt-PT;q=0.8,pt;q=0.7",
				AcceptEncoding: "gzip, deflate, br",
				Connection:     "keep-alive",
			},
			Browser: BrowserConfig{
				Headless:     true,
				Timeout:      30 * time.Second,
				WindowWidth:  1920,
				WindowHeight: 1080,
			},
		},
		Analysis: AnalysisConfig{
			TopN: 10,
			Skills: []string{
				"python", "java", "sql", "aws", "azure", "javascript",
				"react", "node", "docker", "kubernetes", "agile", "scrum",
			},
		},
		Output: OutputConfig{
			Dir: "outputs",
		},
		Queue: QueueConfig{
			Capacity: 16,
			MaxPages: 40,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
			MaxAge:         600,
		},
	}
}

// Validate rejects settings the scraper cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Scraper.PageSize <= 0 {
		errs = append(errs, errors.New("scraper.page_size must be positive"))
	}
	if c.Scraper.PageDelay < 0 || c.Scraper.DetailDelay < 0 {
		errs = append(errs, errors.New("scraper delays must not be negative"))
	}
	if c.Scraper.RecencyWindow <= 0 {
		errs = append(errs, errors.New("scraper.recency_window must be positive"))
	}
	switch c.Scraper.Fetcher {
	case FetcherHTTP, FetcherBrowser:
	default:
		errs = append(errs, fmt.Errorf("unknown scraper.fetcher %q", c.Scraper.Fetcher))
	}
	if c.Analysis.TopN <= 0 {
		errs = append(errs, errors.New("analysis.top_n must be positive"))
	}
	if c.Queue.Capacity <= 0 || c.Queue.MaxPages <= 0 {
		errs = append(errs, errors.New("queue.capacity and queue.max_pages must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	// Server
	if v := os.Getenv("SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DEBUG"); strings.EqualFold(v, "true") {
		c.Server.Debug = true
	}

	// Scraper
	if v := os.Getenv("SCRAPER_BASE_URL"); v != "" {
		c.Scraper.BaseURL = v
	}
	if v := os.Getenv("SCRAPER_COUNTRY"); v != "" {
		c.Scraper.Country = v
	}
	if v := os.Getenv("SCRAPER_FETCHER"); v != "" {
		c.Scraper.Fetcher = strings.ToLower(v)
	}
	if v := os.Getenv("SCRAPER_PAGE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_PAGE_DELAY: %w", err)
		}
		c.Scraper.PageDelay = d
	}
	if v := os.Getenv("SCRAPER_DETAIL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_DETAIL_DELAY: %w", err)
		}
		c.Scraper.DetailDelay = d
	}

	// Output
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("OUTPUT_ECHARTS_SCRIPT"); v != "" {
		c.Output.EChartsScript = v
	}
	return nil
}

// Address returns the host:port the server listens on
func (s ServerConfig) Address() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}
