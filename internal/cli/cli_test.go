package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("plan flag", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse([]string{"-plan", "sweep.hcl"}, out)

		require.NoError(t, err)
		assert.False(t, shouldExit)
		assert.Equal(t, "sweep.hcl", cfg.PlanPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 10, cfg.WorkerCount)
		assert.Equal(t, 120*time.Second, cfg.WaitTimeout)
		assert.False(t, cfg.DryRun)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		cfg, _, err := Parse([]string{"-p", "sweep.hcl"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "sweep.hcl", cfg.PlanPath)
	})

	t.Run("positional path", func(t *testing.T) {
		cfg, _, err := Parse([]string{"plans/"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "plans/", cfg.PlanPath)
	})

	t.Run("all options", func(t *testing.T) {
		cfg, _, err := Parse([]string{
			"-plan", "sweep.hcl",
			"-workers", "4",
			"-wait-timeout", "30s",
			"-dry-run",
			"-log-format", "text",
			"-log-level", "debug",
			"-healthcheck-port", "8080",
		}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, 30*time.Second, cfg.WaitTimeout)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 8080, cfg.HealthcheckPort)
	})

	t.Run("no path prints usage and exits cleanly", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse(nil, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("help flag exits cleanly", func(t *testing.T) {
		_, shouldExit, err := Parse([]string{"-h"}, &bytes.Buffer{})
		require.NoError(t, err)
		assert.True(t, shouldExit)
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, _, err := Parse([]string{"-plan", "x.hcl", "-log-format", "xml"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "invalid log-format")
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := Parse([]string{"-plan", "x.hcl", "-log-level", "loud"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("non-positive wait timeout", func(t *testing.T) {
		_, _, err := Parse([]string{"-plan", "x.hcl", "-wait-timeout", "0s"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Contains(t, exitErr.Message, "invalid wait-timeout")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, _, err := Parse([]string{"-bogus"}, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}
