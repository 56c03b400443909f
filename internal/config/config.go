package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/logger"
)

// Review modes.
const (
	ModeSingle    = "single"
	ModeCommittee = "committee"
)

// GitHub comment surfaces.
const (
	SurfaceReview  = "review"
	SurfaceComment = "comment"
)

// Secret is a credential that renders masked in logs and formatted output.
type Secret string

// String implements fmt.Stringer.
func (s Secret) String() string {
	if len(s) <= 8 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return string(s[:4]) + "****" + string(s[len(s)-4:])
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Reveal returns the raw credential for use in outbound requests.
func (s Secret) Reveal() string {
	return string(s)
}

// Config holds the application's configuration values. It is built once at
// startup and passed explicitly to every component.
type Config struct {
	Server  ServerConfig
	Logging logger.Config
	AI      AIConfig
	GitHub  GitHubConfig
	GitLab  GitLabConfig

	// ReviewMode selects the job run for webhook events: "single" or "committee".
	ReviewMode string
	Personas   []core.Persona

	// Standalone (CI) invocation.
	Repository string
	PRNumber   int
}

type ServerConfig struct {
	Port string
}

type AIConfig struct {
	OllamaHost     string
	Model          string
	CommitteeModel string
	Stream         bool
	Timeout        time.Duration
	Temperature    float64
	TopP           float64
	EchoTokens     bool
}

type GitHubConfig struct {
	Token          Secret
	APIURL         string
	Surface        string
	AppID          int64
	PrivateKeyPath string
}

// UsesApp reports whether GitHub App installation auth is configured.
func (c GitHubConfig) UsesApp() bool {
	return c.AppID != 0 && c.PrivateKeyPath != ""
}

type GitLabConfig struct {
	Token   Secret
	BaseURL string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "code-reviewer")
	v.SetDefault("COMMITTEE_MODEL", "llama3:8b-instruct")
	v.SetDefault("OLLAMA_STREAM", true)
	v.SetDefault("OLLAMA_TIMEOUT", "5m")
	v.SetDefault("MODEL_TEMPERATURE", 0.1)
	v.SetDefault("MODEL_TOP_P", 0.9)
	v.SetDefault("ECHO_TOKENS", false)
	v.SetDefault("REVIEW_MODE", ModeSingle)
	v.SetDefault("GITHUB_API_URL", "https://api.github.com/")
	v.SetDefault("GITHUB_REVIEW_SURFACE", SurfaceReview)
}

// LoadConfig reads configuration from environment variables and a .env file
// using the global Viper instance, so CLI flags bound with BindPFlag take
// precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	return Load(viper.GetViper())
}

// Load builds a Config from v. Missing credentials are not an error here: the
// server logs them and keeps running, while the CLI calls ValidateStandalone.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && v.ConfigFileUsed() != "" {
			slog.Debug("no config file loaded", "file", v.ConfigFileUsed(), "error", err)
		}
	}

	mode := strings.ToLower(v.GetString("REVIEW_MODE"))
	if mode != ModeSingle && mode != ModeCommittee {
		return nil, fmt.Errorf("%w: REVIEW_MODE must be %q or %q, got %q", core.ErrConfiguration, ModeSingle, ModeCommittee, mode)
	}

	surface := strings.ToLower(v.GetString("GITHUB_REVIEW_SURFACE"))
	if surface != SurfaceReview && surface != SurfaceComment {
		return nil, fmt.Errorf("%w: GITHUB_REVIEW_SURFACE must be %q or %q, got %q", core.ErrConfiguration, SurfaceReview, SurfaceComment, surface)
	}

	timeout := v.GetDuration("OLLAMA_TIMEOUT")
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: OLLAMA_TIMEOUT must be positive", core.ErrConfiguration)
	}

	personas, err := LoadPersonas(v.GetString("PERSONAS_FILE"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrConfiguration, err)
	}

	return &Config{
		Server: ServerConfig{Port: v.GetString("SERVER_PORT")},
		Logging: logger.Config{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		AI: AIConfig{
			OllamaHost:     strings.TrimRight(v.GetString("OLLAMA_HOST"), "/"),
			Model:          v.GetString("OLLAMA_MODEL"),
			CommitteeModel: v.GetString("COMMITTEE_MODEL"),
			Stream:         v.GetBool("OLLAMA_STREAM"),
			Timeout:        timeout,
			Temperature:    v.GetFloat64("MODEL_TEMPERATURE"),
			TopP:           v.GetFloat64("MODEL_TOP_P"),
			EchoTokens:     v.GetBool("ECHO_TOKENS"),
		},
		GitHub: GitHubConfig{
			Token:          Secret(v.GetString("GITHUB_TOKEN")),
			APIURL:         v.GetString("GITHUB_API_URL"),
			Surface:        surface,
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
		},
		GitLab: GitLabConfig{
			Token:   Secret(v.GetString("GITLAB_TOKEN")),
			BaseURL: strings.TrimRight(v.GetString("GITLAB_URL"), "/"),
		},
		ReviewMode: mode,
		Personas:   personas,
		Repository: v.GetString("GITHUB_REPOSITORY"),
		PRNumber:   v.GetInt("PR_NUMBER"),
	}, nil
}

// Warnings lists settings the server can run without but that will make
// reviews fail for one of the platforms.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.GitHub.Token == "" && !c.GitHub.UsesApp() {
		warnings = append(warnings, "GITHUB_TOKEN is not set; GitHub reviews will fail")
	}
	if c.GitLab.Token == "" {
		warnings = append(warnings, "GITLAB_TOKEN is not set; GitLab reviews will fail")
	}
	return warnings
}

// ValidateStandalone checks the settings required by the CI command.
func (c *Config) ValidateStandalone() error {
	var missing []string
	if c.GitHub.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if c.Repository == "" {
		missing = append(missing, "GITHUB_REPOSITORY")
	}
	if c.PRNumber <= 0 {
		missing = append(missing, "PR_NUMBER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment variables: %s", core.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
