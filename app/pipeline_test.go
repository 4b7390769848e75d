package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popsynth/adapters/census"
	"popsynth/adapters/export"
	"popsynth/adapters/recode"
	"popsynth/adapters/synth"
	"popsynth/internal/augment"
	"popsynth/internal/errors"
	"popsynth/internal/rng"
)

var feedFields = []string{"SEX", "AGEP", "PINCP", "SCHL"}

// feedCSV builds a raw microdata payload with bracketed codes, a sentinel
// income and a spread of ages and education codes, the way the live feed
// serves it.
func feedCSV(rows int) string {
	var b strings.Builder
	b.WriteString("SEX,AGEP,PINCP,SCHL\n")
	for i := 0; i < rows; i++ {
		sex := 1 + i%2
		age := 5 + (i*7)%85
		income := 10000 + (i*931)%90000
		if i%9 == 0 {
			income = -60000
		}
		schl := i % 25
		fmt.Fprintf(&b, "[%d],%d,%d,%d]\n", sex, age, income, schl)
	}
	return b.String()
}

func feedServer(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestPipeline(baseURL, apiKey string) *PipelineService {
	return NewPipelineService(
		census.NewClient(census.Query{BaseURL: baseURL, APIKey: apiKey, Fields: feedFields}),
		recode.NewNormalizer(),
		synth.NewSynthesizer(synth.DefaultConfig()),
		augment.NewAugmenter(augment.DefaultModel()),
		export.NewCSVExporter(),
		export.NewXLSXExporter(),
		rng.NewAdapter(),
	)
}

func TestRun_EndToEnd(t *testing.T) {
	server := feedServer(t, feedCSV(200))
	dir := t.TempDir()

	pipeline := newTestPipeline(server.URL, "test-key")
	result, err := pipeline.Run(context.Background(), RunRequest{
		Seed:       42,
		TargetRows: 500,
		CSVPath:    filepath.Join(dir, "out.csv"),
		XLSXPath:   filepath.Join(dir, "out.xlsx"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, int64(42), result.Seed)
	assert.Equal(t, 200, result.FetchedRows)
	assert.Equal(t, 200, result.CleanedRows)
	assert.Equal(t, 500, result.SyntheticRows)
	assert.InDelta(t, 0.6, result.InsuredRate, 0.1)
	assert.NotEmpty(t, result.Fingerprint)

	fromCSV, err := export.ReadCSV(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	require.Len(t, fromCSV, 500)
	for _, p := range fromCSV {
		assert.GreaterOrEqual(t, p.Age, 18)
	}

	fromXLSX, err := export.ReadXLSX(filepath.Join(dir, "out.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, fromCSV, fromXLSX)
}

func TestRun_SameSeedSameFingerprint(t *testing.T) {
	server := feedServer(t, feedCSV(200))

	run := func(seed int64, dir string) *RunResult {
		t.Helper()
		pipeline := newTestPipeline(server.URL, "test-key")
		result, err := pipeline.Run(context.Background(), RunRequest{
			Seed:       seed,
			TargetRows: 300,
			CSVPath:    filepath.Join(dir, "out.csv"),
			XLSXPath:   filepath.Join(dir, "out.xlsx"),
		})
		require.NoError(t, err)
		return result
	}

	first := run(42, t.TempDir())
	second := run(42, t.TempDir())
	third := run(43, t.TempDir())

	assert.Equal(t, first.Fingerprint, second.Fingerprint, "same seed must replay byte-identical output")
	assert.NotEqual(t, first.RunID, second.RunID, "run identity is fresh per run")
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint, "different seed should change the draws")
}

func TestRun_AuthFailureAbortsBeforeExport(t *testing.T) {
	server := feedServer(t, feedCSV(200))
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")

	pipeline := newTestPipeline(server.URL, "")
	_, err := pipeline.Run(context.Background(), RunRequest{
		Seed:       42,
		TargetRows: 100,
		CSVPath:    csvPath,
		XLSXPath:   filepath.Join(dir, "out.xlsx"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNetworkError, errors.GetCode(err))

	_, err = export.ReadCSV(csvPath)
	assert.Error(t, err, "no partial export should exist after an aborted run")
}

func TestRun_InsufficientSampleAborts(t *testing.T) {
	server := feedServer(t, feedCSV(20))
	dir := t.TempDir()

	pipeline := newTestPipeline(server.URL, "test-key")
	_, err := pipeline.Run(context.Background(), RunRequest{
		Seed:       42,
		TargetRows: 100,
		CSVPath:    filepath.Join(dir, "out.csv"),
		XLSXPath:   filepath.Join(dir, "out.xlsx"),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeSynthesisError, errors.GetCode(err))
}
