package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"popsynth/internal/errors"
)

// Config represents the complete pipeline configuration
type Config struct {
	Census    CensusConfig
	Synthesis SynthesisConfig
	Insurance InsuranceConfig
	Output    OutputConfig
}

// CensusConfig holds the microdata feed settings. The API key is always
// supplied through the environment, never embedded in source.
type CensusConfig struct {
	BaseURL string
	APIKey  string `validate:"required"`
	Fields  []string
	Timeout time.Duration
}

// SynthesisConfig holds the synthetic sample settings
type SynthesisConfig struct {
	Seed       int64
	SampleSize int
	MinAge     int
}

// InsuranceConfig holds the insured-model coefficients. The success
// probability intercept + ageCoef*age + sexCoef*indicator must stay inside
// [0,1] for every plausible age; values outside that range are a
// configuration error, not something the augmenter clamps.
type InsuranceConfig struct {
	Intercept float64
	AgeCoef   float64
	SexCoef   float64
}

// OutputConfig holds the export destinations
type OutputConfig struct {
	CSVPath  string `validate:"required"`
	XLSXPath string `validate:"required"`
}

// maxPlausibleAge bounds the probability sanity check on the insured model.
const maxPlausibleAge = 120

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Census: CensusConfig{
			BaseURL: getEnvOrDefault("CENSUS_API_URL", "https://api.census.gov/data/2018/acs/acs1/pums"),
			APIKey:  os.Getenv("CENSUS_API_KEY"),
			Fields:  splitFields(getEnvOrDefault("CENSUS_FIELDS", "SEX,AGEP,PINCP,SCHL")),
			Timeout: getEnvDurationOrDefault("FETCH_TIMEOUT", 60*time.Second),
		},
		Synthesis: SynthesisConfig{
			Seed:       getEnvInt64OrDefault("SEED", 42),
			SampleSize: getEnvIntOrDefault("SAMPLE_SIZE", 2000),
			MinAge:     getEnvIntOrDefault("MIN_AGE", 18),
		},
		Insurance: InsuranceConfig{
			Intercept: getEnvFloatOrDefault("INSURE_INTERCEPT", 0.5),
			AgeCoef:   getEnvFloatOrDefault("INSURE_AGE_COEF", 0.002),
			SexCoef:   getEnvFloatOrDefault("INSURE_SEX_COEF", 0.02),
		},
		Output: OutputConfig{
			CSVPath:  os.Getenv("OUT_CSV"),
			XLSXPath: os.Getenv("OUT_XLSX"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Census.APIKey == "" {
		return errors.ConfigInvalid("CENSUS_API_KEY is required")
	}
	if len(config.Census.Fields) == 0 {
		return errors.ConfigInvalid("CENSUS_FIELDS must name at least one field")
	}
	if config.Synthesis.SampleSize <= 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be positive")
	}
	if config.Synthesis.MinAge < 0 {
		return errors.ConfigInvalid("MIN_AGE must not be negative")
	}
	if config.Output.CSVPath == "" {
		return errors.ConfigInvalid("OUT_CSV is required")
	}
	if config.Output.XLSXPath == "" {
		return errors.ConfigInvalid("OUT_XLSX is required")
	}
	return validateInsurance(config.Insurance)
}

// validateInsurance rejects coefficient sets whose success probability leaves
// [0,1] for any age in [0, maxPlausibleAge] and either sex indicator. The
// model is affine in age, so checking the endpoints suffices.
func validateInsurance(ins InsuranceConfig) error {
	for _, age := range []float64{0, maxPlausibleAge} {
		for _, indicator := range []float64{0, 1} {
			p := ins.Intercept + ins.AgeCoef*age + ins.SexCoef*indicator
			if p < 0 || p > 1 {
				return errors.ConfigInvalid("insured-model coefficients produce a probability outside [0,1]")
			}
		}
	}
	return nil
}

func splitFields(raw string) []string {
	parts := strings.Split(raw, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	return fields
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
