package config

import (
	"reflect"
	"testing"
	"time"

	"popsynth/internal/errors"
)

// setRequired provides the minimal environment a valid config needs and blanks
// every optional variable so defaults apply.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CENSUS_API_KEY", "test-key")
	t.Setenv("OUT_CSV", "/tmp/out.csv")
	t.Setenv("OUT_XLSX", "/tmp/out.xlsx")
	for _, key := range []string{
		"CENSUS_API_URL", "CENSUS_FIELDS", "FETCH_TIMEOUT",
		"SEED", "SAMPLE_SIZE", "MIN_AGE",
		"INSURE_INTERCEPT", "INSURE_AGE_COEF", "INSURE_SEX_COEF",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if config.Census.BaseURL != "https://api.census.gov/data/2018/acs/acs1/pums" {
		t.Errorf("BaseURL = %q", config.Census.BaseURL)
	}
	if config.Census.APIKey != "test-key" {
		t.Errorf("APIKey = %q", config.Census.APIKey)
	}
	if want := []string{"SEX", "AGEP", "PINCP", "SCHL"}; !reflect.DeepEqual(config.Census.Fields, want) {
		t.Errorf("Fields = %v, want %v", config.Census.Fields, want)
	}
	if config.Census.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", config.Census.Timeout)
	}
	if config.Synthesis.Seed != 42 {
		t.Errorf("Seed = %d, want 42", config.Synthesis.Seed)
	}
	if config.Synthesis.SampleSize != 2000 {
		t.Errorf("SampleSize = %d, want 2000", config.Synthesis.SampleSize)
	}
	if config.Synthesis.MinAge != 18 {
		t.Errorf("MinAge = %d, want 18", config.Synthesis.MinAge)
	}
	if config.Insurance.Intercept != 0.5 || config.Insurance.AgeCoef != 0.002 || config.Insurance.SexCoef != 0.02 {
		t.Errorf("Insurance = %+v", config.Insurance)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CENSUS_API_URL", "http://localhost:9090/pums")
	t.Setenv("CENSUS_FIELDS", "SEX, AGEP ,PINCP,SCHL")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("SEED", "7")
	t.Setenv("SAMPLE_SIZE", "100")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if config.Census.BaseURL != "http://localhost:9090/pums" {
		t.Errorf("BaseURL = %q", config.Census.BaseURL)
	}
	if want := []string{"SEX", "AGEP", "PINCP", "SCHL"}; !reflect.DeepEqual(config.Census.Fields, want) {
		t.Errorf("Fields = %v, want trimmed %v", config.Census.Fields, want)
	}
	if config.Census.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", config.Census.Timeout)
	}
	if config.Synthesis.Seed != 7 || config.Synthesis.SampleSize != 100 {
		t.Errorf("Synthesis = %+v", config.Synthesis)
	}
}

func TestLoad_MissingAPIKeyFails(t *testing.T) {
	setRequired(t)
	t.Setenv("CENSUS_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail without CENSUS_API_KEY")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}

func TestLoad_MissingOutputPathsFail(t *testing.T) {
	for _, key := range []string{"OUT_CSV", "OUT_XLSX"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load should fail without %s", key)
			}
			if errors.GetCode(err) != errors.CodeConfigInvalid {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
			}
		})
	}
}

func TestLoad_NonPositiveSampleSizeFails(t *testing.T) {
	setRequired(t)
	t.Setenv("SAMPLE_SIZE", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail on a negative sample size")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}

func TestLoad_InsuranceCoefficientsOutOfRangeFail(t *testing.T) {
	setRequired(t)
	t.Setenv("INSURE_AGE_COEF", "0.01") // p = 0.5 + 0.01*120 > 1 at the age bound

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail when coefficients can push p above 1")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}
