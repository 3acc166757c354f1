package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"tempotoggl/transform"
)

const (
	KeyTempoBaseURL          = "tempo.base_url"
	KeyTempoAPIToken         = "tempo.api_token"
	KeyJiraEmail             = "jira.email"
	KeyJiraAPIToken          = "jira.api_token"
	KeyTogglBaseURL          = "toggl.base_url"
	KeyTogglAPIToken         = "toggl.api_token"
	KeyTogglWorkspaceID      = "toggl.workspace_id"
	KeyTogglProjectID        = "toggl.project_id"
	KeyTogglTaskID           = "toggl.task_id"
	KeySyncCreatedWith       = "sync.created_with"
	KeySyncLookupConcurrency = "sync.lookup_concurrency"
	KeySyncTags              = "sync.tags"
	KeyCacheEnabled          = "cache.enabled"
	KeyCachePath             = "cache.path"
	KeyCacheMaxAgeHours      = "cache.max_age_hours"
)

type Config struct {
	Tempo TempoConfig `mapstructure:"tempo" validate:"required"`
	Jira  JiraConfig  `mapstructure:"jira"`
	Toggl TogglConfig `mapstructure:"toggl" validate:"required"`
	Sync  SyncConfig  `mapstructure:"sync"`
	Cache CacheConfig `mapstructure:"cache"`
}

type TempoConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"required,url"`
	APIToken string `mapstructure:"api_token" validate:"required"`
}

// JiraConfig is optional as a whole: without credentials enrichment is
// disabled and descriptions fall back to the raw issue URL.
type JiraConfig struct {
	Email    string `mapstructure:"email" validate:"omitempty,email"`
	APIToken string `mapstructure:"api_token"`
}

func (c JiraConfig) Configured() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.APIToken) != ""
}

type TogglConfig struct {
	BaseURL     string `mapstructure:"base_url" validate:"required,url"`
	APIToken    string `mapstructure:"api_token" validate:"required"`
	WorkspaceID int64  `mapstructure:"workspace_id" validate:"required,gt=0"`
	ProjectID   int64  `mapstructure:"project_id" validate:"gte=0"`
	TaskID      int64  `mapstructure:"task_id" validate:"gte=0"`
}

type SyncConfig struct {
	CreatedWith       string   `mapstructure:"created_with"`
	LookupConcurrency int      `mapstructure:"lookup_concurrency" validate:"gte=0,lte=64"`
	Tags              []string `mapstructure:"tags"`
}

type CacheConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Path        string `mapstructure:"path"`
	MaxAgeHours int    `mapstructure:"max_age_hours" validate:"gte=0"`
}

// TransformConfig builds the per-run transformation settings. Zero-valued
// project and task IDs stay nil so the fields are omitted from payloads.
func (c *Config) TransformConfig() transform.Config {
	out := transform.Config{
		WorkspaceID: c.Toggl.WorkspaceID,
		CreatedWith: c.Sync.CreatedWith,
		Tags:        c.Sync.Tags,
	}
	if c.Toggl.ProjectID > 0 {
		projectID := c.Toggl.ProjectID
		out.ProjectID = &projectID
	}
	if c.Toggl.TaskID > 0 {
		taskID := c.Toggl.TaskID
		out.TaskID = &taskID
	}
	return out
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// TemplateValues are the credentials "config create" collects interactively.
// Zero values render the same placeholders as the bare template.
type TemplateValues struct {
	TempoAPIToken    string
	JiraEmail        string
	JiraAPIToken     string
	TogglAPIToken    string
	TogglWorkspaceID int64
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return RenderYAML(TemplateValues{})
}

// RenderYAML returns the configuration template with the given credentials
// filled in.
func RenderYAML(v TemplateValues) string {
	return fmt.Sprintf(`# tempotoggl configuration
tempo:
  base_url: "https://api.tempo.io/4"
  api_token: %q

# Optional: resolve issue keys/summaries from Jira for entry descriptions.
jira:
  email: %q
  api_token: %q

toggl:
  base_url: "https://api.track.toggl.com/api/v9"
  api_token: %q
  workspace_id: %d
  # project_id: 0
  # task_id: 0

sync:
  created_with: "tempotoggl"
  lookup_concurrency: 5
  tags: []

cache:
  enabled: true
  path: "./tempotoggl-cache.db"
  max_age_hours: 720
`, v.TempoAPIToken, v.JiraEmail, v.JiraAPIToken, v.TogglAPIToken, v.TogglWorkspaceID)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Toggl.TaskID > 0 && cfg.Toggl.ProjectID <= 0 {
		return nil, fmt.Errorf("validation failed: toggl.task_id requires toggl.project_id")
	}
	if hasPartialJiraConfig(cfg.Jira) {
		return nil, fmt.Errorf("validation failed: jira.email and jira.api_token must be set together")
	}

	return &cfg, nil
}

func hasPartialJiraConfig(cfg JiraConfig) bool {
	email := strings.TrimSpace(cfg.Email)
	token := strings.TrimSpace(cfg.APIToken)
	return (email == "") != (token == "")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTempoBaseURL, "https://api.tempo.io/4")
	v.SetDefault(KeyTogglBaseURL, "https://api.track.toggl.com/api/v9")
	v.SetDefault(KeySyncCreatedWith, transform.DefaultCreatedWith)
	v.SetDefault(KeySyncLookupConcurrency, 5)
	v.SetDefault(KeySyncTags, []string{})
	v.SetDefault(KeyCacheEnabled, true)
	v.SetDefault(KeyCachePath, "./tempotoggl-cache.db")
	v.SetDefault(KeyCacheMaxAgeHours, 720)
}
