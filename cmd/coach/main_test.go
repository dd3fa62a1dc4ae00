package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/coach/internal/training"
)

// runCoach executes the CLI against dir and returns what it wrote to stdout.
func runCoach(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"COACH_BACKEND", "COACH_SQLITE_PATH", "NATS_URL", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), "output: %s", s)
	return m
}

func TestAnalyze_Text(t *testing.T) {
	out, err := runCoach(t, t.TempDir(), "analyze", "--text", "No. I won't be able to join, but I can review the notes.")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	assert.Equal(t, "email-formal", got["modality"])
	assert.NotContains(t, got, "diagnostics")

	scores, ok := got["scores"].(map[string]any)
	require.True(t, ok)
	for _, d := range training.Dimensions {
		assert.Contains(t, scores, string(d))
	}
}

func TestAnalyze_VerboseIncludesDiagnostics(t *testing.T) {
	out, err := runCoach(t, t.TempDir(), "analyze", "--text", "Um, so, like, we should maybe go.", "--verbose", "--modality", "conversation")
	require.NoError(t, err)

	got := decodeJSON(t, out)
	diag, ok := got["diagnostics"].(map[string]any)
	require.True(t, ok, "expected diagnostics object")
	assert.Contains(t, diag, "filler_count")
}

func TestAnalyze_RequiresInput(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "analyze")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}

func TestAnalyze_RejectsUnknownModality(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "analyze", "--text", "hi", "--modality", "fax")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}

func TestAnalyze_FilesRecordAndTrack(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("Let's ship it today."), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("I think maybe we could try?"), 0o644))

	out, err := runCoach(t, dir, "analyze", "--file", a, "--file", b, "--record", "--track", "--modality", "sms")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Contains(t, results[0], "sample")
	assert.Contains(t, results[1], "progress")

	samples, err := os.ReadDir(filepath.Join(dir, "samples"))
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	out, err = runCoach(t, dir, "state", "load")
	require.NoError(t, err)
	var st training.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 2, st.Dimensions[training.Clarity].Samples)
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "analyze", "--file", "/does/not/exist.txt")
	require.Error(t, err)
}

func TestStateUpdate_RequiresDimensionAndScore(t *testing.T) {
	dir := t.TempDir()

	_, err := runCoach(t, dir, "state", "update", "--dimension", "clarity")
	require.ErrorIs(t, err, training.ErrInvalidArguments)

	_, err = runCoach(t, dir, "state", "update", "--score", "5")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}

func TestStateUpdate_UnknownDimension(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "state", "update", "--dimension", "wit", "--score", "5")
	require.ErrorIs(t, err, training.ErrUnknownDimension)

	var buf bytes.Buffer
	writeError(&buf, err)
	got := decodeJSON(t, buf.String())
	assert.Equal(t, "wit", got["dimension"])
	assert.Contains(t, got["error"], "unknown dimension")
}

func TestStateUpdate_BaselineAndWeakest(t *testing.T) {
	dir := t.TempDir()

	out, err := runCoach(t, dir, "state", "weakest")
	require.NoError(t, err)
	assert.Nil(t, decodeJSON(t, out)["weakest_dimension"])

	var report map[string]any
	for i := 0; i < 5; i++ {
		out, err = runCoach(t, dir, "state", "update", "--dimension", "persuasion", "--score", "4", "--modality", "presentation")
		require.NoError(t, err)
		report = decodeJSON(t, out)
	}
	assert.Equal(t, true, report["baseline_established"])
	assert.Equal(t, 4.0, report["baseline"])

	out, err = runCoach(t, dir, "state", "update", "--dimension", "persuasion", "--score", "6.5")
	require.NoError(t, err)
	report = decodeJSON(t, out)
	assert.Equal(t, 5.0, report["points_earned"])
	assert.Equal(t, 5.0, report["total_points"])

	out, err = runCoach(t, dir, "state", "weakest")
	require.NoError(t, err)
	w := decodeJSON(t, out)
	assert.Equal(t, "persuasion", w["weakest_dimension"])
	assert.Equal(t, 6.5, w["score"])
}

func TestStateArchiveHistoryYAML(t *testing.T) {
	dir := t.TempDir()

	_, err := runCoach(t, dir, "state", "update", "--dimension", "presence", "--score", "3")
	require.NoError(t, err)

	out, err := runCoach(t, dir, "state", "archive")
	require.NoError(t, err)
	archived := decodeJSON(t, out)
	month, _ := archived["month"].(string)
	require.NotEmpty(t, month)

	out, err = runCoach(t, dir, "-o", "yaml", "state", "history", "--month", month)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries), "output: %s", out)
	require.Len(t, entries, 1)
	assert.Equal(t, month, entries[0]["month"])
	assert.Contains(t, entries[0], "state_snapshot")
}

func TestStateHistory_MalformedMonth(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "state", "history", "--month", "2026/01")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}

func TestStateReset(t *testing.T) {
	dir := t.TempDir()

	_, err := runCoach(t, dir, "state", "update", "--dimension", "clarity", "--score", "8")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "state.json"))

	out, err := runCoach(t, dir, "state", "reset")
	require.NoError(t, err)
	assert.Equal(t, "State reset", decodeJSON(t, out)["message"])
	assert.NoFileExists(t, filepath.Join(dir, "state.json"))
}

func TestSQLiteBackendFlag(t *testing.T) {
	dir := t.TempDir()

	_, err := runCoach(t, dir, "--backend", "sqlite", "state", "update", "--dimension", "vocal_control", "--score", "7")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "coach.db"))
	assert.NoFileExists(t, filepath.Join(dir, "state.json"))

	out, err := runCoach(t, dir, "--backend", "sqlite", "state", "load")
	require.NoError(t, err)
	var st training.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, 7.0, st.Dimensions[training.VocalControl].Current)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "-o", "xml", "state", "load")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}

func TestCorruptStateFailsFast(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("not json"), 0o644))

	_, err := runCoach(t, dir, "state", "load")
	require.ErrorIs(t, err, training.ErrStorage)
}

func TestWatch_RequiresNATS(t *testing.T) {
	_, err := runCoach(t, t.TempDir(), "watch")
	require.ErrorIs(t, err, training.ErrInvalidArguments)
}
