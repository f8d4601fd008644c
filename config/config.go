package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig   `yaml:"logging"`
	ListenAddr  string          `yaml:"listen_addr"`
	GeminiModel string          `yaml:"gemini_model"`
	Summarize   SummarizeConfig `yaml:"summarize"`
	Mail        MailConfig      `yaml:"mail"`

	// Populated from environment variables, never from config.yaml.
	MongoURI     string
	MongoDBName  string
	GeminiAPIKey string
	SMTPUser     string
	SMTPPass     string
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SummarizeConfig bounds the outbound Gemini call.
type SummarizeConfig struct {
	// TimeoutSeconds is the upper bound for a single summarization call.
	// 0 or less falls back to the default of 60 seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// MailConfig describes the SMTP relay used to deliver summaries.
type MailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`

	// DefaultSubject is used when a send request carries no subject.
	DefaultSubject string `yaml:"default_subject"`

	// TimeoutSeconds is the upper bound for a single delivery attempt.
	// 0 or less falls back to the default of 30 seconds.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	c.applyDefaults()
	c.loadEnv()
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func (c *AppConfig) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8000"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash"
	}
	if c.Summarize.TimeoutSeconds <= 0 {
		c.Summarize.TimeoutSeconds = 60
	}
	if c.Mail.SMTPHost == "" {
		c.Mail.SMTPHost = "smtp.gmail.com"
	}
	if c.Mail.SMTPPort == 0 {
		c.Mail.SMTPPort = 587
	}
	if c.Mail.DefaultSubject == "" {
		c.Mail.DefaultSubject = "Meeting Summary"
	}
	if c.Mail.TimeoutSeconds <= 0 {
		c.Mail.TimeoutSeconds = 30
	}
}

func (c *AppConfig) loadEnv() {
	c.MongoURI = os.Getenv("MONGO_URI")
	c.MongoDBName = os.Getenv("MONGO_DB_NAME")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.SMTPUser = os.Getenv("SMTP_USER")
	c.SMTPPass = os.Getenv("SMTP_PASS")
}

// SummarizeTimeout returns the configured summarization deadline.
func (c AppConfig) SummarizeTimeout() time.Duration {
	return time.Duration(c.Summarize.TimeoutSeconds) * time.Second
}

// MailTimeout returns the configured delivery deadline.
func (c AppConfig) MailTimeout() time.Duration {
	return time.Duration(c.Mail.TimeoutSeconds) * time.Second
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
