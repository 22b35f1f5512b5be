package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	newTestEnv(t)

	out, err := execute(t, "", "validate", "--file", writeDraft(t, validDraft()))
	require.NoError(t, err, out)
	assert.Contains(t, out, "no problems found")

	draft := validDraft()
	draft["phone"] = "call me"
	out, err = execute(t, "", "validate", "--file", writeDraft(t, draft))
	assert.Error(t, err)
	assert.Contains(t, out, "Invalid phone number format")

	draft = validDraft()
	delete(draft, "full_name")
	out, err = execute(t, "", "validate", "--file", writeDraft(t, draft))
	assert.Error(t, err)
	assert.Contains(t, out, "full_name")
}

func TestValidateCommand_MissingFileFlag(t *testing.T) {
	_, err := execute(t, "", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "file" not set`)
}

func TestValidateCommand_UnreadableFiles(t *testing.T) {
	newTestEnv(t)

	_, err := execute(t, "", "validate", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read draft file")

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o600))
	_, err = execute(t, "", "validate", "--file", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid draft file")
}

func TestSubmitCommand(t *testing.T) {
	env := newTestEnv(t)
	pdfPath := filepath.Join(t.TempDir(), "out", "jane.pdf")

	out, err := execute(t, "", "submit", "--file", writeDraft(t, validDraft()), "--pdf", pdfPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Resume submitted successfully")
	assert.Contains(t, out, "PDF saved to "+pdfPath)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, testPDF, string(data))

	items, total, err := env.store.ListResumes(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Jane Doe", items[0].FullName)
}

func TestSubmitCommand_InvalidDraftIsNotSent(t *testing.T) {
	env := newTestEnv(t)
	draft := validDraft()
	draft["social_links"] = map[string]string{"github": "github.com/jane"}

	out, err := execute(t, "", "submit", "--file", writeDraft(t, draft))
	assert.Error(t, err)
	assert.Contains(t, out, "Invalid URL for github")

	_, total, err := env.store.ListResumes(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestFormCommand(t *testing.T) {
	env := newTestEnv(t)
	pdfDir := t.TempDir()

	script := strings.Join([]string{
		"submit",
		"set full_name Jane Doe",
		"set email jane@example.com",
		"add education",
		"update education 0 degree BSc",
		"update education 5 degree MSc",
		"skills add Languages",
		"skills set Languages Go, SQL",
		"bogus command",
		"submit",
		"set phone 555",
		"pdf",
		"quit",
	}, "\n") + "\n"

	out, err := execute(t, script, "form", "--pdf-dir", pdfDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Full name is required")
	assert.Contains(t, out, "No change")
	assert.Contains(t, out, `unknown command "bogus"`)
	assert.Contains(t, out, "Resume submitted successfully")
	assert.Contains(t, out, "already submitted")
	assert.Contains(t, out, "PDF saved to")

	items, total, err := env.store.ListResumes(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, total)

	stored, err := env.store.GetResume(context.Background(), items[0].ID)
	require.NoError(t, err)
	require.Len(t, stored.Education, 1)
	assert.Equal(t, "BSc", stored.Education[0].Degree)
	skills, _ := stored.TechnicalSkills.Skills("Languages")
	assert.Equal(t, []string{"Go", "SQL"}, skills)

	_, err = os.Stat(filepath.Join(pdfDir, "resume_"+items[0].ID+".pdf"))
	assert.NoError(t, err)
}

func seedResume(t *testing.T, env *testEnv, name string) string {
	t.Helper()
	r := types.NewResumeData()
	r.FullName = name
	r.UserEmail = "candidate@example.com"
	stored, err := env.store.CreateResume(context.Background(), r)
	require.NoError(t, err)
	return stored.ID
}

func TestAdminCommands(t *testing.T) {
	env := newTestEnv(t)
	id := seedResume(t, env, "Jane Doe")
	seedResume(t, env, "John Roe")

	_, err := execute(t, "", "admin", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	out, err := execute(t, "", "admin", "login", "--email", testAdminEmail, "--password", "wrong-password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	out, err = execute(t, testAdminPassword+"\n", "admin", "login", "--email", testAdminEmail)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logged in as "+testAdminEmail)

	out, err = execute(t, "", "admin", "list", "--per-page", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "John Roe")
	assert.NotContains(t, out, "Jane Doe")
	assert.Contains(t, out, "next: --page 2")

	out, err = execute(t, "", "admin", "show", id)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "candidate@example.com")

	dir := t.TempDir()
	out, err = execute(t, "", "admin", "download", id, "--out", dir)
	require.NoError(t, err, out)
	data, err := os.ReadFile(filepath.Join(dir, "Jane_Doe_resume.pdf"))
	require.NoError(t, err)
	assert.Equal(t, testPDF, string(data))

	pageDir := t.TempDir()
	out, err = execute(t, "", "admin", "download-page", "--out", pageDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Downloaded 2 PDFs")
	assert.FileExists(t, filepath.Join(pageDir, "John_Roe_resume.pdf"))

	out, err = execute(t, "n\n", "admin", "delete", id)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deletion cancelled")
	_, err = env.store.GetResume(context.Background(), id)
	require.NoError(t, err)

	out, err = execute(t, "", "admin", "delete", id, "--yes")
	require.NoError(t, err, out)
	assert.Contains(t, out, "deleted")
	_, err = env.store.GetResume(context.Background(), id)
	assert.Error(t, err)

	out, err = execute(t, "", "admin", "logout")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Logged out")

	sess, err := session.Open(session.NewFileStore(env.sessionFile))
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestAdminCommands_SessionExpired(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, session.NewFileStore(env.sessionFile).Save(session.TokenKey, "revoked-token"))

	_, err := execute(t, "", "admin", "list")
	require.Error(t, err)
	assert.Equal(t, "session expired, please log in", err.Error())

	sess, err := session.Open(session.NewFileStore(env.sessionFile))
	require.NoError(t, err)
	assert.False(t, sess.Authenticated(), "a rejected session is cleared")
}

func TestAdminLogin_MissingEmail(t *testing.T) {
	_, err := execute(t, "", "admin", "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "email" not set`)
}
