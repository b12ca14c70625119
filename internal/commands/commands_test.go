package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type testApp struct {
	flags  *Flags
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, cfg config.Config) *testApp {
	t.Helper()

	return &testApp{
		flags:  &Flags{Config: &cfg},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
}

// run executes args against a freshly built command tree sharing flags
// and output buffers with earlier runs.
func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()

	app := &cli.Command{
		Name:           "noticeq",
		Writer:         ta.stdout,
		ErrWriter:      ta.stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	app = NewPlayCmd(ta.flags).Register(app)
	app = NewConfigValidateCmd(ta.flags).Register(app)
	app = NewHistoryCmd(ta.flags).Register(app)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()
	return app.Run(ctx, append([]string{"noticeq"}, args...))
}

// fastConfig disables animations and shortens every display duration.
func fastConfig() config.Config {
	off := false
	cfg := config.DefaultConfig()
	cfg.Scheduler.Animations = &off
	cfg.Scheduler.Durations = map[notice.Kind]time.Duration{
		notice.KindInfo:    30 * time.Millisecond,
		notice.KindSuccess: 30 * time.Millisecond,
		notice.KindWarning: 30 * time.Millisecond,
		notice.KindError:   30 * time.Millisecond,
	}
	return cfg
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
