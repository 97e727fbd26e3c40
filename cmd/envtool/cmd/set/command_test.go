package set

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethan-huo/env-tool/internal/cmd/application"
	"github.com/ethan-huo/env-tool/internal/config"
	"github.com/ethan-huo/env-tool/internal/transport"
)

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestSet(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantDev   string
		wantProd  string
		wantLines []string
	}{
		{
			name:      "updates dev in place",
			args:      []string{"A", "2"},
			wantDev:   "# comment\nA=2\nB=x\n",
			wantProd:  "A=prod\n",
			wantLines: []string{"dev: A=2"},
		},
		{
			name:      "appends to prod",
			args:      []string{"C", "3", "-e", "prod"},
			wantDev:   "# comment\nA=1\nB=x\n",
			wantProd:  "A=prod\nC=3\n",
			wantLines: []string{"prod: C=3"},
		},
		{
			name:      "writes both with all",
			args:      []string{"A", "9", "-e", "all"},
			wantDev:   "# comment\nA=9\nB=x\n",
			wantProd:  "A=9\n",
			wantLines: []string{"dev: A=9", "prod: A=9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, ".env.development", []byte("# comment\nA=1\nB=x\n"), 0o600))
			require.NoError(t, afero.WriteFile(fs, ".env.production", []byte("A=prod\n"), 0o600))
			app := application.NewMock(config.Default(), fs, transport.NewFake())

			out, err := execute(t, app, tt.args...)
			require.NoError(t, err)
			for _, line := range tt.wantLines {
				assert.Contains(t, out, line)
			}

			dev, err := afero.ReadFile(fs, ".env.development")
			require.NoError(t, err)
			assert.Equal(t, tt.wantDev, string(dev))
			prod, err := afero.ReadFile(fs, ".env.production")
			require.NoError(t, err)
			assert.Equal(t, tt.wantProd, string(prod))
		})
	}
}

func TestSetTruncatesLongValues(t *testing.T) {
	app := application.NewMock(config.Default(), afero.NewMemMapFs(), transport.NewFake())
	long := strings.Repeat("x", 40)

	out, err := execute(t, app, "TOKEN", long)
	require.NoError(t, err)
	assert.Contains(t, out, "dev: TOKEN="+strings.Repeat("x", 27)+"...")
	assert.NotContains(t, out, long)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "short", display("short"))
	assert.Equal(t, strings.Repeat("a", 30), display(strings.Repeat("a", 30)))
	assert.Equal(t, strings.Repeat("a", 27)+"...", display(strings.Repeat("a", 31)))
}

func TestSetRequiresTwoArgs(t *testing.T) {
	app := application.NewMock(config.Default(), afero.NewMemMapFs(), transport.NewFake())
	_, err := execute(t, app, "ONLY_KEY")
	assert.Error(t, err)
}
