package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ScopeFormsBody              = "https://www.googleapis.com/auth/forms.body"
	ScopeDrive                  = "https://www.googleapis.com/auth/drive"
	ScopeFormsResponsesReadonly = "https://www.googleapis.com/auth/forms.responses.readonly"
)

type Config struct {
	// CredentialsFile is a service-account key. When empty, Application Default Credentials are used.
	CredentialsFile  string `yaml:"credentials_file"`
	ParticipantsFile string `yaml:"participants_file" validate:"required"`
	FormsInfoFile    string `yaml:"forms_info_file" validate:"required"`

	FolderID string `yaml:"folder_id" validate:"required"`
	// FolderPath, when set, is created below FolderID and receives the forms instead.
	FolderPath  string   `yaml:"folder_path" validate:"omitempty,startswith=/"`
	TitleSuffix string   `yaml:"title_suffix"`
	Questions   []string `yaml:"questions" validate:"min=1,dive,required"`
	OptionCount int      `yaml:"option_count" validate:"min=2,max=10"`
	// Publish, when set, publishes each form and opens it for responses after the questions are added.
	Publish bool    `yaml:"publish"`
	Shares  []Share `yaml:"shares" validate:"dive"`

	ProvisionScopes []string `yaml:"provision_scopes" validate:"min=1,dive,url"`
	AggregateScopes []string `yaml:"aggregate_scopes" validate:"min=1,dive,url"`

	RequestsPerMinute int    `yaml:"requests_per_minute" validate:"min=0"`
	Logger            Logger `yaml:"logger"`
}

// Share grants access to every created form.
type Share struct {
	Type               string `yaml:"type" validate:"oneof=user group domain anyone"`
	Email              string `yaml:"email" validate:"required_if=Type user,required_if=Type group,omitempty,email"`
	Domain             string `yaml:"domain" validate:"required_if=Type domain"`
	Role               string `yaml:"role" validate:"oneof=reader commenter writer"`
	AllowFileDiscovery bool   `yaml:"allow_file_discovery"`
}

// Address returns the email or domain identifying the grantee.
func (s Share) Address() string {
	if s.Type == "domain" {
		return s.Domain
	}
	return s.Email
}

type Logger struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"oneof=json console"`
}

// DefaultQuestions is the questionnaire put on every form unless overridden.
var DefaultQuestions = []string{
	"Формулировка цели проекта",
	"Актуальность проекта",
	"Артистичность выступающего",
	"Качество графического материала",
	"Соответствие функциональным требованиям",
	"Перспективы развития",
	"Реализация проекта",
	"Ответы на вопросы слушателей",
}

func Default() *Config {
	return &Config{
		CredentialsFile:   "credentials.json",
		ParticipantsFile:  "participants.txt",
		FormsInfoFile:     "forms_info.txt",
		FolderID:          "1A3N-FNQR8JcrTlSo7yhKHyCmuFO8R9M8",
		TitleSuffix:       " оценка участника",
		Questions:         append([]string{}, DefaultQuestions...),
		OptionCount:       5,
		ProvisionScopes:   []string{ScopeFormsBody, ScopeDrive},
		AggregateScopes:   []string{ScopeFormsResponsesReadonly},
		RequestsPerMinute: 0,
		Logger: Logger{
			Level:    "info",
			Encoding: "console",
		},
	}
}

var validate = validator.New()

// Load builds the configuration from defaults, the YAML file at path (skipped when path is empty),
// a .env file in the working directory if present, and EVALFORMS_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.CredentialsFile = getEnvString("EVALFORMS_CREDENTIALS_FILE", c.CredentialsFile)
	c.ParticipantsFile = getEnvString("EVALFORMS_PARTICIPANTS_FILE", c.ParticipantsFile)
	c.FormsInfoFile = getEnvString("EVALFORMS_FORMS_INFO_FILE", c.FormsInfoFile)
	c.FolderID = getEnvString("EVALFORMS_FOLDER_ID", c.FolderID)
	c.FolderPath = getEnvString("EVALFORMS_FOLDER_PATH", c.FolderPath)
	c.Logger.Level = getEnvString("EVALFORMS_LOG_LEVEL", c.Logger.Level)

	rpm, err := getEnvInt("EVALFORMS_REQUESTS_PER_MINUTE", c.RequestsPerMinute)
	if err != nil {
		return err
	}
	c.RequestsPerMinute = rpm
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
