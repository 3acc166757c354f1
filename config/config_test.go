package config

import (
	"strings"
	"testing"
)

func validContent() []byte {
	return []byte(`tempo:
  base_url: "https://api.tempo.io/4"
  api_token: "tempo-token"
jira:
  email: "dev@example.com"
  api_token: "jira-token"
toggl:
  base_url: "https://api.track.toggl.com/api/v9"
  api_token: "toggl-token"
  workspace_id: 42
`)
}

func TestValidateYAMLContent_AcceptsValidConfig(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent(validContent())
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Toggl.WorkspaceID != 42 {
		t.Fatalf("unexpected workspace id: %d", cfg.Toggl.WorkspaceID)
	}
	if !cfg.Jira.Configured() {
		t.Fatalf("expected jira to be configured")
	}
	if cfg.Sync.CreatedWith != "tempotoggl" {
		t.Fatalf("expected created_with default, got %q", cfg.Sync.CreatedWith)
	}
	if cfg.Sync.LookupConcurrency != 5 {
		t.Fatalf("expected lookup concurrency default, got %d", cfg.Sync.LookupConcurrency)
	}
	if !cfg.Cache.Enabled {
		t.Fatalf("expected cache enabled by default")
	}
}

func TestValidateYAMLContent_RequiresTempoToken(t *testing.T) {
	t.Parallel()

	content := []byte(`tempo:
  base_url: "https://api.tempo.io/4"
toggl:
  api_token: "toggl-token"
  workspace_id: 42
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for missing tempo token")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RequiresWorkspaceID(t *testing.T) {
	t.Parallel()

	content := []byte(`tempo:
  api_token: "tempo-token"
toggl:
  api_token: "toggl-token"
`)

	if _, err := ValidateYAMLContent(content); err == nil {
		t.Fatalf("expected validation error for missing workspace id")
	}
}

func TestValidateYAMLContent_TaskRequiresProject(t *testing.T) {
	t.Parallel()

	content := []byte(`tempo:
  api_token: "tempo-token"
toggl:
  api_token: "toggl-token"
  workspace_id: 42
  task_id: 7
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for task without project")
	}
	if !strings.Contains(err.Error(), "task_id requires") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_PartialJiraConfigRejected(t *testing.T) {
	t.Parallel()

	content := []byte(`tempo:
  api_token: "tempo-token"
jira:
  email: "dev@example.com"
toggl:
  api_token: "toggl-token"
  workspace_id: 42
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for partial jira credentials")
	}
	if !strings.Contains(err.Error(), "set together") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransformConfig_OptionalIDs(t *testing.T) {
	t.Parallel()

	cfg := &Config{Toggl: TogglConfig{WorkspaceID: 42}}
	tc := cfg.TransformConfig()
	if tc.ProjectID != nil || tc.TaskID != nil {
		t.Fatalf("expected nil optional ids for zero config values")
	}

	cfg = &Config{Toggl: TogglConfig{WorkspaceID: 42, ProjectID: 11, TaskID: 22}}
	tc = cfg.TransformConfig()
	if tc.ProjectID == nil || *tc.ProjectID != 11 {
		t.Fatalf("unexpected project id: %v", tc.ProjectID)
	}
	if tc.TaskID == nil || *tc.TaskID != 22 {
		t.Fatalf("unexpected task id: %v", tc.TaskID)
	}
}

func TestRenderYAML_FilledValuesValidate(t *testing.T) {
	t.Parallel()

	content := RenderYAML(TemplateValues{
		TempoAPIToken:    "tempo-token",
		JiraEmail:        "dev@example.com",
		JiraAPIToken:     "jira-token",
		TogglAPIToken:    "toggl-token",
		TogglWorkspaceID: 42,
	})

	cfg, err := ValidateYAMLContent([]byte(content))
	if err != nil {
		t.Fatalf("expected rendered config to validate: %v", err)
	}
	if cfg.Tempo.APIToken != "tempo-token" || cfg.Toggl.WorkspaceID != 42 {
		t.Fatalf("unexpected rendered config: %+v", cfg)
	}
	if !cfg.Jira.Configured() {
		t.Fatalf("expected jira credentials to be carried into the rendered config")
	}
}

func TestRenderYAML_ZeroValuesMatchExample(t *testing.T) {
	t.Parallel()

	if got := RenderYAML(TemplateValues{}); got != ExampleYAML() {
		t.Fatalf("zero template values must render the example template, got:\n%s", got)
	}
}

func TestExampleYAML_Validates(t *testing.T) {
	t.Parallel()

	// The template ships with empty tokens on purpose; filling them in must
	// be the only step between "config create" and a valid config.
	content := strings.NewReplacer(
		`api_token: ""`, `api_token: "filled"`,
		`workspace_id: 0`, `workspace_id: 42`,
		`email: ""`, `email: "dev@example.com"`,
	).Replace(ExampleYAML())

	if _, err := ValidateYAMLContent([]byte(content)); err != nil {
		t.Fatalf("expected filled example template to validate: %v", err)
	}
}
