package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/deck/internal/config"
)

// runCLI executes the root command with args and returns the app handed
// to the frontend.
func runCLI(t *testing.T, args ...string) (*app, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var got *app
	cmd := newRootCmd(func(ctx context.Context, a *app) error {
		got = a
		return nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestRunBuiltinDeck(t *testing.T) {
	a, _, err := runCLI(t, "--log-file", "")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 8, a.deck.Len())
	assert.Equal(t, config.ThemeDark, a.cfg.Theme)
	assert.Zero(t, a.cfg.AutoAdvance, "auto-advance is off unless asked for")
}

func TestRunDeckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.md")
	require.NoError(t, os.WriteFile(path, []byte("# One\n---\n# Two\n---\n# Three\n"), 0644))

	a, _, err := runCLI(t, "--log-file", "", path)
	require.NoError(t, err)
	assert.Equal(t, 3, a.deck.Len())
	assert.Equal(t, path, a.cfg.Deck)
}

func TestRunMissingDeck(t *testing.T) {
	_, _, err := runCLI(t, "--log-file", "", filepath.Join(t.TempDir(), "nope.md"))
	assert.ErrorContains(t, err, "failed to read deck")
}

func TestConfigPrecedence(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "theme: light\nauto_advance: 10s\nremote:\n  addr: :1111\nlog:\n  file: \"\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0644))

	a, _, err := runCLI(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, a.cfg.Theme)
	assert.Equal(t, 10*time.Second, a.cfg.AutoAdvance)
	assert.Equal(t, ":1111", a.cfg.Remote.Addr)

	t.Setenv("DECK_REMOTE_ADDR", ":2222")
	t.Setenv("DECK_AUTO_ADVANCE", "20s")
	a, _, err = runCLI(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, ":2222", a.cfg.Remote.Addr, "env beats file")
	assert.Equal(t, 20*time.Second, a.cfg.AutoAdvance)

	a, _, err = runCLI(t, "--config", cfgPath, "--remote", ":3333", "--theme", "DARK", "--auto-advance", "0s")
	require.NoError(t, err)
	assert.Equal(t, ":3333", a.cfg.Remote.Addr, "flag beats env")
	assert.Equal(t, config.ThemeDark, a.cfg.Theme)
	assert.Zero(t, a.cfg.AutoAdvance)
}

func TestDemoFlag(t *testing.T) {
	a, _, err := runCLI(t, "--log-file", "", "--demo")
	require.NoError(t, err)
	assert.Equal(t, config.DemoAutoAdvance, a.cfg.AutoAdvance)

	a, _, err = runCLI(t, "--log-file", "", "--demo", "--auto-advance", "5s")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, a.cfg.AutoAdvance)
}

func TestEffectFlags(t *testing.T) {
	a, _, err := runCLI(t, "--log-file", "", "--particles", "5", "--no-confetti", "--no-mouse", "--frame-rate", "10")
	require.NoError(t, err)
	assert.Equal(t, 5, a.cfg.Effects.Particles)
	assert.False(t, a.cfg.Effects.Confetti)
	assert.False(t, a.cfg.Effects.Mouse)
	assert.Equal(t, 10, a.cfg.Effects.FrameRate)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := runCLI(t, "--log-file", "", "--theme", "neon")
	assert.ErrorContains(t, err, "invalid config")
}

func TestLogFileWritten(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "deck.log")
	a, _, err := runCLI(t, "--log-file", logPath)
	require.NoError(t, err)
	require.NoError(t, a.logger.Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deck loaded")
}

func TestFormatsCommand(t *testing.T) {
	a, out, err := runCLI(t, "formats")
	require.NoError(t, err)
	assert.Nil(t, a, "subcommands do not present")
	assert.Contains(t, out, "EPUB (.epub)")
	assert.Contains(t, out, "YAML (.yaml, .yml)")
}

func TestConfigInitAndShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "deck", "config.yaml")

	_, out, err := runCLI(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+cfgPath)

	_, _, err = runCLI(t, "config", "init", "--config", cfgPath)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = runCLI(t, "config", "init", "--config", cfgPath, "--force")
	assert.NoError(t, err)

	t.Setenv("DECK_THEME", "light")
	_, out, err = runCLI(t, "config", "show", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "theme: light")
	assert.Contains(t, out, "particles: 50")
}

func TestConfigShowFlags(t *testing.T) {
	_, out, err := runCLI(t, "config", "show",
		"--theme", "light", "--particles", "7", "--no-confetti", "--remote", ":4444", "--demo")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: light")
	assert.Contains(t, out, "particles: 7")
	assert.Contains(t, out, "confetti: false")
	assert.Contains(t, out, "4444")
	assert.Contains(t, out, "auto_advance: 30s")
}

func TestThemeCaseInsensitive(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("theme: Light\nlog:\n  file: \"\"\n"), 0644))
	a, _, err := runCLI(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, a.cfg.Theme)

	t.Setenv("DECK_THEME", "DARK")
	a, _, err = runCLI(t, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, config.ThemeDark, a.cfg.Theme)
}

func TestVersion(t *testing.T) {
	_, out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}
