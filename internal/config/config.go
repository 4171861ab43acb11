package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log         LogConfig
	Profile     ProfileConfig
	Audio       AudioConfig
	Calibration CalibrationConfig
	Guidance    GuidanceConfig
	Database    DatabaseConfig
	AWS         AWSConfig
	Server      ServerConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// ProfileConfig selects where the hearing profile is persisted
type ProfileConfig struct {
	Backend   string // file, s3 or badger
	Path      string
	Name      string
	BadgerDir string
}

// AudioConfig holds audio transport configuration
type AudioConfig struct {
	SampleRate   int
	BlockSize    int
	ToneDuration float64 // seconds
}

// CalibrationConfig holds the threshold sweep parameters
type CalibrationConfig struct {
	Frequencies []float64
	AmpStartDB  float64
	AmpEndDB    float64
	AmpStepDB   float64
	MaxGainDB   float64
}

// GuidanceConfig holds the text-generation service configuration
type GuidanceConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AWSConfig holds AWS/S3 configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("ENVIRONMENT", "dev")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PROFILE_BACKEND", "file")
	viper.SetDefault("PROFILE_PATH", "aurelius_profile.json")
	viper.SetDefault("PROFILE_NAME", "default")
	viper.SetDefault("BADGER_DIR", ".aurelius/badger")
	viper.SetDefault("SAMPLE_RATE", 44100)
	viper.SetDefault("BLOCK_SIZE", 1024)
	viper.SetDefault("TONE_DURATION", 1.0)
	viper.SetDefault("CALIBRATION_FREQUENCIES", "250,500,1000,2000,4000,6000,8000")
	viper.SetDefault("AMP_START_DB", -60.0)
	viper.SetDefault("AMP_END_DB", 0.0)
	viper.SetDefault("AMP_STEP_DB", 5.0)
	viper.SetDefault("MAX_GAIN_DB", 30.0)
	viper.SetDefault("GUIDANCE_BASE_URL", "http://localhost:11434/v1")
	viper.SetDefault("GUIDANCE_MODEL", "llama3")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ACCESS_KEY_ID", "")
	viper.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	viper.SetDefault("S3_BUCKET", "aurelius-profiles")
	viper.SetDefault("S3_ENDPOINT", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	// Read from .env files based on environment
	env := viper.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	viper.SetConfigName(".env." + env)
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Read .env file (ignore error if file doesn't exist)
	_ = viper.ReadInConfig()

	// Environment variables override .env file values
	viper.AutomaticEnv()

	for _, key := range []string{
		"ENVIRONMENT", "LOG_LEVEL",
		"PROFILE_BACKEND", "PROFILE_PATH", "PROFILE_NAME", "BADGER_DIR",
		"SAMPLE_RATE", "BLOCK_SIZE", "TONE_DURATION",
		"CALIBRATION_FREQUENCIES", "AMP_START_DB", "AMP_END_DB", "AMP_STEP_DB", "MAX_GAIN_DB",
		"GUIDANCE_BASE_URL", "GUIDANCE_MODEL", "OPENAI_API_KEY",
		"DATABASE_URL",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "S3_BUCKET", "S3_ENDPOINT",
		"PORT", "ALLOWED_ORIGINS",
	} {
		_ = viper.BindEnv(key)
	}

	freqs, err := ParseFrequencies(viper.GetString("CALIBRATION_FREQUENCIES"))
	if err != nil {
		return nil, err
	}

	var config Config
	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Profile.Backend = strings.ToLower(viper.GetString("PROFILE_BACKEND"))
	config.Profile.Path = viper.GetString("PROFILE_PATH")
	config.Profile.Name = viper.GetString("PROFILE_NAME")
	config.Profile.BadgerDir = viper.GetString("BADGER_DIR")
	config.Audio.SampleRate = viper.GetInt("SAMPLE_RATE")
	config.Audio.BlockSize = viper.GetInt("BLOCK_SIZE")
	config.Audio.ToneDuration = viper.GetFloat64("TONE_DURATION")
	config.Calibration.Frequencies = freqs
	config.Calibration.AmpStartDB = viper.GetFloat64("AMP_START_DB")
	config.Calibration.AmpEndDB = viper.GetFloat64("AMP_END_DB")
	config.Calibration.AmpStepDB = viper.GetFloat64("AMP_STEP_DB")
	config.Calibration.MaxGainDB = viper.GetFloat64("MAX_GAIN_DB")
	config.Guidance.BaseURL = viper.GetString("GUIDANCE_BASE_URL")
	config.Guidance.Model = viper.GetString("GUIDANCE_MODEL")
	config.Guidance.APIKey = viper.GetString("OPENAI_API_KEY")
	config.Database.URL = viper.GetString("DATABASE_URL")
	config.AWS.Region = viper.GetString("AWS_REGION")
	config.AWS.AccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
	config.AWS.SecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
	config.AWS.S3Bucket = viper.GetString("S3_BUCKET")
	config.AWS.S3Endpoint = viper.GetString("S3_ENDPOINT")
	config.Server.Port = viper.GetString("PORT")
	config.Server.Env = env
	config.Server.AllowedOrigins = strings.Split(viper.GetString("ALLOWED_ORIGINS"), ",")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("profile_backend", config.Profile.Backend).
		Int("sample_rate", config.Audio.SampleRate).
		Int("block_size", config.Audio.BlockSize).
		Floats64("frequencies", config.Calibration.Frequencies).
		Msg("Configuration loaded")

	return &config, nil
}

// Validate checks the values the audio and calibration paths depend on
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("SAMPLE_RATE must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BlockSize < 2 {
		return fmt.Errorf("BLOCK_SIZE must be at least 2, got %d", c.Audio.BlockSize)
	}
	if c.Audio.ToneDuration <= 0 {
		return fmt.Errorf("TONE_DURATION must be positive, got %v", c.Audio.ToneDuration)
	}
	if len(c.Calibration.Frequencies) == 0 {
		return fmt.Errorf("CALIBRATION_FREQUENCIES must list at least one frequency")
	}
	if c.Calibration.AmpStepDB <= 0 {
		return fmt.Errorf("AMP_STEP_DB must be positive, got %v", c.Calibration.AmpStepDB)
	}
	if c.Calibration.AmpStartDB > c.Calibration.AmpEndDB {
		return fmt.Errorf("AMP_START_DB (%v) must not exceed AMP_END_DB (%v)", c.Calibration.AmpStartDB, c.Calibration.AmpEndDB)
	}
	if c.Calibration.MaxGainDB < 0 {
		return fmt.Errorf("MAX_GAIN_DB must not be negative, got %v", c.Calibration.MaxGainDB)
	}
	switch c.Profile.Backend {
	case "file", "s3", "badger":
	default:
		return fmt.Errorf("unknown PROFILE_BACKEND %q (want file, s3 or badger)", c.Profile.Backend)
	}
	return nil
}

// ParseFrequencies parses a comma-separated list of frequencies in Hz
func ParseFrequencies(s string) ([]float64, error) {
	var freqs []float64
	seen := make(map[float64]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid calibration frequency %q: %w", part, err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("calibration frequency must be positive, got %v", f)
		}
		if seen[f] {
			return nil, fmt.Errorf("calibration frequency %v Hz listed twice", f)
		}
		seen[f] = true
		freqs = append(freqs, f)
	}
	return freqs, nil
}
