package cmd

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/timetable/core/workflow"
	"github.com/kilianp07/timetable/remote"
)

func runCLI(t *testing.T, fail ...string) (string, error) {
	t.Helper()
	mock := remote.NewServerMockWithRegistry(remote.MockConfig{Fail: fail}, remote.DefaultSeed(), prometheus.NewRegistry())
	ts := httptest.NewServer(mock.Routes())
	t.Cleanup(ts.Close)
	t.Setenv("K_REMOTE__BASE_URL", ts.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"run"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, out, "MTH101 · Room 101 · A. Sen")
	assert.Contains(t, out, "Teacher-wise Provisional Allotment")
}

func TestRunCommandFailure(t *testing.T) {
	out, err := runCLI(t, workflow.StepGenerate)
	require.Error(t, err)
	assert.Equal(t, workflow.FailureMessage, err.Error())
	assert.Contains(t, out, workflow.FailureMessage)
}
