package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/anttrack/mot"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultMatchesTracker(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	tracker, err := cfg.Tracker()
	require.NoError(t, err)
	if diff := cmp.Diff(mot.DefaultConfig(), tracker); diff != "" {
		t.Errorf("default tracker config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "tuning.json", `{
		"dist_thresh": 35,
		"edge_border": 15,
		"matching": "greedy",
		"kalman": {"std_dev_a": 1.5, "std_dev_m": 0.2, "u": 0},
		"detector": {"min_blob": 30, "max_blob": 400, "knn_history": 200, "knn_threshold": 300, "blur_kernel": 3}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 35.0, cfg.DistThresh)
	assert.Equal(t, 15.0, cfg.EdgeBorder)
	// untouched keys keep defaults
	assert.Equal(t, Default().MaxTraceLength, cfg.MaxTraceLength)
	assert.Equal(t, 2, cfg.EntryTraceOffset)

	tracker, err := cfg.Tracker()
	require.NoError(t, err)
	assert.Equal(t, mot.MatchingAlgorithmGreedy, tracker.Matching)
	assert.Equal(t, mot.KalmanParams{UX: 0, UY: 0, StdDevA: 1.5, StdDevMx: 0.2, StdDevMy: 0.2}, tracker.Kalman)
	assert.Equal(t, 3, cfg.Detector.BlurKernel)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]struct {
		name    string
		content string
		errPart string
	}{
		"wrong extension":  {"tuning.yaml", `{}`, ".json extension"},
		"broken json":      {"tuning.json", `{"dist_thresh": `, "parse"},
		"bad matching":     {"tuning.json", `{"matching": "auction"}`, "matching"},
		"short trace":      {"tuning.json", `{"max_trace_length": 2, "entry_trace_offset": 2}`, "max_trace_length"},
		"negative border":  {"tuning.json", `{"edge_border": -1}`, "edge_border"},
		"bad blur kernel":  {"tuning.json", `{"detector": {"min_blob": 1, "max_blob": 2, "knn_history": 1, "knn_threshold": 1, "blur_kernel": 2}}`, "blur_kernel"},
		"zero crowd limit": {"tuning.json", `{"count_warning_threshold": 0}`, "count_warning_threshold"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, c.name, c.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.errPart)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoadTooLarge(t *testing.T) {
	big := `{"matching": "hungarian", "pad": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err := Load(writeFile(t, "big.json", big))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
