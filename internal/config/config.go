package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-agent/internal/entity"
)

const (
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

var ErrUnknownProvider = errors.New("unknown suggestion provider")

type Config struct {
	LogLevel   string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat  string     `yaml:"log-format" env:"LOG_FORMAT" env-default:"json"`
	HTTPPort   string     `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis      Redis      `yaml:"redis"`
	Suggestion Suggestion `yaml:"suggestion"`
	Session    Session    `yaml:"session"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Suggestion struct {
	Provider    string        `yaml:"provider" env:"SUGGESTION_PROVIDER" env-default:"gemini"`
	APIKey      string        `yaml:"api-key" env:"GEMINI_API_KEY,API_KEY"`
	Model       string        `yaml:"model" env:"GEMINI_MODEL" env-default:"gemini-2.5-flash"`
	BaseURL     string        `yaml:"base-url" env:"GEMINI_BASE_URL"`
	Timeout     time.Duration `yaml:"timeout" env:"SUGGESTION_TIMEOUT" env-default:"10s"`
	Temperature float64       `yaml:"temperature" env:"SUGGESTION_TEMPERATURE" env-default:"0.7"`
	CacheTTL    time.Duration `yaml:"cache-ttl" env:"SUGGESTION_CACHE_TTL" env-default:"24h"`
}

type Session struct {
	Mode       string `yaml:"mode" env:"SESSION_MODE" env-default:"pve"`
	Difficulty string `yaml:"difficulty" env:"SESSION_DIFFICULTY" env-default:"medium"`
	AgentMark  string `yaml:"agent-mark" env:"SESSION_AGENT_MARK" env-default:"O"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load reads path when it exists and the environment otherwise.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) validate() error {
	if _, err := that.Session.GameMode(); err != nil {
		return err
	}

	if _, err := that.Session.GameDifficulty(); err != nil {
		return err
	}

	if _, err := that.Session.Agent(); err != nil {
		return err
	}

	if that.Suggestion.Provider != ProviderGemini && that.Suggestion.Provider != ProviderLocal {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, that.Suggestion.Provider)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Session) GameMode() (entity.GameMode, error) {
	mode, err := entity.ParseGameMode(that.Mode)
	if err != nil {
		return mode, fmt.Errorf("invalid session mode: %w", err)
	}

	return mode, nil
}

func (that *Session) GameDifficulty() (entity.Difficulty, error) {
	difficulty, err := entity.ParseDifficulty(that.Difficulty)
	if err != nil {
		return difficulty, fmt.Errorf("invalid session difficulty: %w", err)
	}

	return difficulty, nil
}

func (that *Session) Agent() (entity.Player, error) {
	agent, err := entity.ParsePlayer(that.AgentMark)
	if err != nil {
		return agent, fmt.Errorf("invalid session agent mark: %w", err)
	}

	return agent, nil
}
