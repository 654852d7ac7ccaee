package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

// Config holds the settings shared by the servers and tools. Values come
// from an optional YAML file (POKEDEX_CONFIG) and are then overridden by
// environment variables.
type Config struct {
	HTTPAddr   string `yaml:"http_addr"`
	TCPAddr    string `yaml:"tcp_addr"`
	GRPCAddr   string `yaml:"grpc_addr"`
	PokeAPIURL string `yaml:"pokeapi_url"`
	MirrorURL  string `yaml:"mirror_url"`
	SpriteBase string `yaml:"sprite_base"`

	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTTTLHours int    `yaml:"jwt_ttl_hours"`

	// Prefetch lists the generations warmed in the background on start.
	Prefetch         []int `yaml:"prefetch"`
	FetchConcurrency int   `yaml:"fetch_concurrency"`
	Debug            bool  `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		HTTPAddr:         ":8080",
		TCPAddr:          ":9090",
		GRPCAddr:         ":9092",
		PokeAPIURL:       "https://pokeapi.co/api/v2",
		JWTSecret:        "dev-secret-change-me",
		JWTIssuer:        "pokedex",
		JWTTTLHours:      24,
		Prefetch:         []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		FetchConcurrency: 8,
	}
}

// LoadConfig reads POKEDEX_CONFIG if set, then applies env overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("POKEDEX_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.HTTPAddr, "POKEDEX_HTTP_ADDR")
	setString(&c.TCPAddr, "POKEDEX_TCP_ADDR")
	setString(&c.GRPCAddr, "POKEDEX_GRPC_ADDR")
	setString(&c.PokeAPIURL, "POKEDEX_POKEAPI_URL")
	setString(&c.MirrorURL, "POKEDEX_MIRROR_URL")
	setString(&c.SpriteBase, "POKEDEX_SPRITE_BASE")
	setString(&c.JWTSecret, "POKEDEX_JWT_SECRET")
	setString(&c.JWTIssuer, "POKEDEX_JWT_ISSUER")

	if v := os.Getenv("POKEDEX_JWT_TTL_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("POKEDEX_JWT_TTL_HOURS: invalid value %q", v)
		}
		c.JWTTTLHours = n
	}
	if v := os.Getenv("POKEDEX_FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("POKEDEX_FETCH_CONCURRENCY: invalid value %q", v)
		}
		c.FetchConcurrency = n
	}
	if v, ok := os.LookupEnv("POKEDEX_PREFETCH"); ok {
		gens, err := ParseGenerations(v)
		if err != nil {
			return fmt.Errorf("POKEDEX_PREFETCH: %w", err)
		}
		c.Prefetch = gens
	}
	if v := os.Getenv("POKEDEX_DEBUG"); v != "" {
		c.Debug = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}

// Auth returns the token settings.
func (c Config) Auth() AuthConfig {
	ttl := c.JWTTTLHours
	if ttl <= 0 {
		ttl = 24
	}
	return AuthConfig{
		JWTSecret:   c.JWTSecret,
		JWTIssuer:   c.JWTIssuer,
		JWTDuration: time.Duration(ttl) * time.Hour,
	}
}

// ParseGenerations parses "1,2,5" or "all". An empty string or "none"
// yields no generations.
func ParseGenerations(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none":
		return nil, nil
	case "all":
		return []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, nil
	}

	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 9 {
			return nil, fmt.Errorf("invalid generation %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
