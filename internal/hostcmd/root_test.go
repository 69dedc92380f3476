//go:build !tinygo

package hostcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (options, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"config"}, args...))
	if err := cmd.Execute(); err != nil {
		return options{}, err
	}
	var o options
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &o), out.String())
	return o, nil
}

func TestConfigDefaults(t *testing.T) {
	o, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "lap", o.Mode)
	assert.Equal(t, uint(3), o.Laps)
	assert.Equal(t, uint(60), o.Time)
	assert.Equal(t, 10*time.Millisecond, o.Poll)
	assert.Equal(t, 6, o.ConsoleLines)
	assert.False(t, o.Headless)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("GATETIMER_LAPS", "7")
	t.Setenv("GATETIMER_GATE_PERIOD", "3s")
	t.Setenv("GATETIMER_SKIP_SPLASH", "true")

	o, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, uint(7), o.Laps)
	assert.Equal(t, 3*time.Second, o.GatePeriod)
	assert.True(t, o.SkipSplash)
}

func TestConfigFileAndFlagPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: time-trial\ntime: 90\nlaps: 9\npoll: 5ms\n"), 0o600))

	o, err := execute(t, "--config", path, "--laps", "5")
	require.NoError(t, err)
	assert.Equal(t, "time-trial", o.Mode)
	assert.Equal(t, uint(90), o.Time)
	assert.Equal(t, uint(5), o.Laps, "flags win over the file")
	assert.Equal(t, 5*time.Millisecond, o.Poll)
}

func TestConfigMissingFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}

func TestConfigRejectsMode(t *testing.T) {
	_, err := execute(t, "--mode", "drag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "drag"`)
}

func TestAppConfigNormalizes(t *testing.T) {
	o := options{Mode: "time-trial", Laps: 40, Time: 100, Poll: 20 * time.Millisecond, SkipSplash: true}
	cfg, err := o.appConfig()
	require.NoError(t, err)
	assert.Equal(t, uint(10), cfg.Initial.LapGoal)
	assert.Equal(t, uint(90), cfg.Initial.TimeTrialSeconds)
	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.SkipSplash)
}

func TestHeadlessRun(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--headless", "--fast", "--ticks", "300", "--script", "100ms:next,1s:select"})
	require.NoError(t, cmd.Execute())
}

func TestHeadlessBadScript(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--headless", "--fast", "--ticks", "10", "--script", "soon:select"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script:")
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "gatetimer dev")
}
