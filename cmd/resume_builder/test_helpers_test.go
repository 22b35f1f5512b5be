package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "password123"
	testPDF           = "%PDF-1.4 test"
)

type stubRenderer struct{}

func (stubRenderer) RenderPDF(context.Context, string) ([]byte, error) {
	return []byte(testPDF), nil
}

// testEnv is a development server on a memory store plus a private session file.
type testEnv struct {
	store       *db.MemoryStore
	sessionFile string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := db.NewMemoryStore()
	srv, err := server.New(&config.ServerConfig{
		MaxResumeSize: config.DefaultMaxResumeSize,
		LoginRate:     100,
		LoginBurst:    100,
		PDFTimeout:    5 * time.Second,
	}, server.Deps{
		Store:     store,
		JWT:       &config.JWTConfig{Secret: "test-secret-key-for-jwt-signing-minimum-32-bytes", ExpirationHours: 24, Issuer: "resume-builder"},
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Renderer:  stubRenderer{},
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	_, err = srv.Admins().CreateAdmin(context.Background(), testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{store: store, sessionFile: filepath.Join(t.TempDir(), "session.json")}
	t.Setenv("RESUME_API_URL", ts.URL+"/api")
	t.Setenv("RESUME_SESSION_FILE", env.sessionFile)
	return env
}

// execute runs the CLI in-process with the given stdin and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeDraft(t *testing.T, draft map[string]any) string {
	t.Helper()
	data, err := json.Marshal(draft)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func validDraft() map[string]any {
	return map[string]any{
		"full_name":    "Jane Doe",
		"user_email":   "jane@example.com",
		"phone":        "+1 555 010 0100",
		"social_links": map[string]string{"github": "https://github.com/jane"},
		"education":    []map[string]string{{"degree": "BSc", "institution": "MIT", "year": "2015"}},
		"technical_skills": map[string][]string{
			"Languages": {"Go", "SQL"},
		},
	}
}
