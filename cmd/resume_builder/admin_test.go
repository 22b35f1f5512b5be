package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, terminal bool, password string, err error) *int {
	t.Helper()
	calls := 0
	origIsTerminal, origReadPassword := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) {
		calls++
		return []byte(password), err
	}
	t.Cleanup(func() { isTerminal, readPassword = origIsTerminal, origReadPassword })
	return &calls
}

func openInput(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestPromptPassword(t *testing.T) {
	tests := []struct {
		name      string
		terminal  bool
		input     func(t *testing.T) io.Reader
		want      string
		wantCalls int
	}{
		{
			name:      "terminal reads without echo",
			terminal:  true,
			input:     func(t *testing.T) io.Reader { return openInput(t, "") },
			want:      "s3cret-pass",
			wantCalls: 1,
		},
		{
			name:     "piped file reads a line",
			terminal: false,
			input:    func(t *testing.T) io.Reader { return openInput(t, "from-pipe\n") },
			want:     "from-pipe",
		},
		{
			name:     "plain reader reads a line",
			terminal: true,
			input:    func(t *testing.T) io.Reader { return strings.NewReader("from-reader\n") },
			want:     "from-reader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := stubTerminal(t, tt.terminal, "s3cret-pass", nil)

			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)
			cmd.SetIn(tt.input(t))

			got, err := promptPassword(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, *calls)
			assert.NotContains(t, out.String(), "s3cret-pass")
		})
	}
}

func TestPromptPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, "", errors.New("inappropriate ioctl"))

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetIn(openInput(t, ""))

	_, err := promptPassword(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read password")
}
