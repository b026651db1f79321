package config

import (
	"fmt"
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Every variable is read as HORIZON_<NAME> first and falls back to the bare
// <NAME>, so the studio's existing .env (EMAIL_USER, AIRTABLE_API_KEY, ...)
// keeps working.

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"PORT" default:"3001"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// APIKey guards the staff-only endpoints. Empty disables them.
	APIKey string `envconfig:"API_KEY"`
	// AllowedOrigins is the CORS allow list for the site frontend.
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".horizon/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket   string `envconfig:"S3_BUCKET"`
	S3Prefix   string `envconfig:"S3_PREFIX" default:"horizon/"`
	S3Region   string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Endpoint string `envconfig:"S3_ENDPOINT"`
}

type CatalogEnv struct {
	// CatalogPath, when set, names a YAML file in storage that replaces the
	// embedded project list.
	CatalogPath string `envconfig:"CATALOG_PATH"`

	AirtableAPIKey    string `envconfig:"AIRTABLE_API_KEY"`
	AirtableBaseID    string `envconfig:"AIRTABLE_BASE_ID"`
	AirtableTableName string `envconfig:"AIRTABLE_TABLE_NAME" default:"Projects"`
	AirtableView      string `envconfig:"AIRTABLE_VIEW" default:"Grid view"`
	AirtableBaseURL   string `envconfig:"AIRTABLE_BASE_URL"`
}

// AirtableConfigured reports whether the external project source should be
// used. Both credentials are required; one without the other is treated as
// absent.
func (e *CatalogEnv) AirtableConfigured() bool {
	return e.AirtableAPIKey != "" && e.AirtableBaseID != ""
}

type MailEnv struct {
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	EmailUser    string `envconfig:"EMAIL_USER"`
	EmailPass    string `envconfig:"EMAIL_PASS"`
	InquiryEmail string `envconfig:"INQUIRY_EMAIL"`
	ContactEmail string `envconfig:"CONTACT_EMAIL"`
	StudioName   string `envconfig:"STUDIO_NAME" default:"Forty Two AI Horizon"`
}

func (e *MailEnv) Configured() bool {
	return e.EmailUser != "" && e.EmailPass != ""
}

// InquiryRecipient is where service inquiries go; it defaults to the sending
// account.
func (e *MailEnv) InquiryRecipient() string {
	if e.InquiryEmail != "" {
		return e.InquiryEmail
	}
	return e.EmailUser
}

func (e *MailEnv) ContactRecipient() string {
	if e.ContactEmail != "" {
		return e.ContactEmail
	}
	return e.EmailUser
}

type VAPIDEnv struct {
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDContact    string `envconfig:"VAPID_CONTACT" default:"hello@example.com"`
}

func (e *VAPIDEnv) Configured() bool {
	return e.VAPIDPublicKey != "" && e.VAPIDPrivateKey != ""
}

type Env struct {
	BaseEnv
	StorageEnv
	CatalogEnv
	MailEnv
	VAPIDEnv
}

const namespace = "HORIZON"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
