package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("COPY_PROVIDER", "static")
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGeneratePrintsCopy(t *testing.T) {
	out, _, err := runCLI(t, "generate", "--product", "EcoGlow", "--description", "Solar garden lights.", "--platform", "instagram", "--tone", "friendly")
	require.NoError(t, err)
	require.Contains(t, out, "Discover Ecoglow")
	require.Contains(t, out, "Shop Now")
	require.Contains(t, out, "#ecoglow #friendly")
	require.Contains(t, out, "Why it works:")
}

func TestGenerateJSON(t *testing.T) {
	out, _, err := runCLI(t, "generate", "--product", "EcoGlow", "--description", "Solar garden lights.", "--platform", "google ads", "--json")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "Get Started Today", res["callToAction"])
	require.Equal(t, "", res["displayHashtags"])
	require.Equal(t, []any{}, res["hashtags"])
}

func TestGenerateValidationFailure(t *testing.T) {
	out, errOut, err := runCLI(t, "generate", "--product", "EcoGlow")
	require.True(t, errors.Is(err, errGenerationFailed), "unexpected error: %v", err)
	require.Empty(t, out)
	require.Contains(t, errOut, "Please provide at least a Product Name and Description.")
}

func TestGenerateRejectsUnknownOption(t *testing.T) {
	_, _, err := runCLI(t, "generate", "--product", "EcoGlow", "--description", "x", "--tone", "sarcastic")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "--tone:"), "unexpected error: %v", err)
}

func TestOptionsMarksDefaults(t *testing.T) {
	out, _, err := runCLI(t, "options")
	require.NoError(t, err)
	require.Contains(t, out, "Platforms:")
	require.Contains(t, out, "* facebook")
	require.Contains(t, out, "Twitter (X)")
	require.Contains(t, out, "* medium")
}

func TestGenerateTimeoutDoesNotWaitForUpstream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "30")

	start := time.Now()
	_, _, err := runCLI(t, "generate", "--provider", "gemini", "--timeout", "200ms",
		"--product", "EcoGlow", "--description", "Solar garden lights.")
	elapsed := time.Since(start)

	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "unexpected error: %v", err)
	require.Less(t, elapsed, 3*time.Second)
}
