package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	token   string
	page    int
	perPage int
}

type fakeClient struct {
	mu sync.Mutex

	loginResp *types.LoginResponse
	loginErr  error
	logoutErr error
	listErr   error
	getErr    error
	deleteErr error
	dlErr     error

	resumes map[string]*types.ResumeData
	order   []string

	listCalls   []listCall
	deleteCalls []string
	logoutCalls []string
	dlCalls     []string

	// listHook runs inside ListResumes before it returns.
	listHook func(page int)
}

func newFakeClient(names ...string) *fakeClient {
	fc := &fakeClient{
		loginResp: &types.LoginResponse{Message: "Login successful", SessionToken: "tok-1", ExpiresInHours: 24},
		resumes:   map[string]*types.ResumeData{},
	}
	for i, name := range names {
		id := fmt.Sprintf("id-%d", i+1)
		r := types.NewResumeData()
		r.FullName = name
		r.UserEmail = fmt.Sprintf("user%d@example.com", i+1)
		fc.resumes[id] = r
		fc.order = append(fc.order, id)
	}
	return fc
}

func unauthorized() error {
	return &api.Error{Kind: api.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid or expired session"}
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*types.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeClient) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	f.logoutCalls = append(f.logoutCalls, token)
	f.mu.Unlock()
	return f.logoutErr
}

func (f *fakeClient) ListResumes(_ context.Context, token string, page, perPage int) (*types.ListResponse, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, listCall{token: token, page: page, perPage: perPage})
	hook := f.listHook
	err := f.listErr
	var items []types.ResumeListItem
	start := (page - 1) * perPage
	for i := start; i >= 0 && i < len(f.order) && i < start+perPage; i++ {
		r := f.resumes[f.order[i]]
		items = append(items, types.ResumeListItem{ID: f.order[i], FullName: r.FullName, UserEmail: r.UserEmail})
	}
	total := len(f.order)
	f.mu.Unlock()

	if hook != nil {
		hook(page)
	}
	if err != nil {
		return nil, err
	}
	return &types.ListResponse{
		Resumes:    items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

func (f *fakeClient) GetResume(_ context.Context, _ string, id string) (*types.ResumeData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.resumes[id]
	if !ok {
		return nil, &api.Error{Kind: api.KindHTTP, Status: http.StatusNotFound, Message: "Resume not found"}
	}
	return r.Clone(), nil
}

func (f *fakeClient) DownloadResumeAsAdmin(_ context.Context, _ string, id, fullName string) (*api.Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dlCalls = append(f.dlCalls, id)
	if f.dlErr != nil {
		return nil, f.dlErr
	}
	return &api.Artifact{Filename: api.AdminFilename(fullName), Data: []byte("%PDF-" + id)}, nil
}

func (f *fakeClient) DownloadResumePDF(_ context.Context, id string) (*api.Artifact, error) {
	if f.dlErr != nil {
		return nil, f.dlErr
	}
	return &api.Artifact{Filename: api.OwnFilename(id), Data: []byte("%PDF")}, nil
}

func (f *fakeClient) DeleteResume(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.resumes[id]; !ok {
		return &api.Error{Kind: api.KindHTTP, Status: http.StatusNotFound, Message: "Resume not found"}
	}
	delete(f.resumes, id)
	for i, v := range f.order {
		if v == id {
			f.order = append(f.order[:i:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeClient) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func loggedIn(t *testing.T, fc *fakeClient, opts ...Option) (*Controller, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	sess, err := session.Open(store)
	require.NoError(t, err)
	c := New(fc, sess, opts...)
	require.NoError(t, c.Login(context.Background(), "admin@example.com", "secret"))
	return c, store
}

func TestLogin(t *testing.T) {
	fc := newFakeClient()
	c, store := loggedIn(t, fc)

	assert.True(t, c.Authenticated())
	v, _ := store.Load(session.TokenKey)
	assert.Equal(t, "tok-1", v)
}

func TestLogin_AcceptsTokenField(t *testing.T) {
	fc := newFakeClient()
	fc.loginResp = &types.LoginResponse{Token: "jwt-2"}
	c, _ := loggedIn(t, fc)
	assert.Equal(t, "jwt-2", c.Session().Token())
}

func TestLogin_FailureChangesNothing(t *testing.T) {
	fc := newFakeClient()
	fc.loginErr = &api.Error{Kind: api.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	c := New(fc, nil)

	err := c.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)
	assert.False(t, c.Authenticated())
	assert.Equal(t, err, c.Err())
}

func TestLogin_MissingCredential(t *testing.T) {
	fc := newFakeClient()
	fc.loginResp = &types.LoginResponse{Message: "ok"}
	c := New(fc, nil)
	assert.ErrorIs(t, c.Login(context.Background(), "a@b.c", "x"), ErrNoCredential)
	assert.False(t, c.Authenticated())
}

func TestSessionScopedCallsRequireLogin(t *testing.T) {
	fc := newFakeClient("Jane")
	c := New(fc, nil)
	ctx := context.Background()

	_, err := c.FetchPage(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.SelectResume(ctx, "id-1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, c.DeleteResume(ctx, "id-1", Confirmed), ErrNotAuthenticated)
	_, err = c.DownloadAsAdmin(ctx, "id-1", "Jane")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = c.DownloadPage(ctx, t.TempDir())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, fc.listCount())
}

func TestFetchPage(t *testing.T) {
	fc := newFakeClient("A", "B", "C")
	c, _ := loggedIn(t, fc)

	resp, err := c.FetchPage(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Resumes, 2)

	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, 2, snap.TotalPages)
	assert.Equal(t, 3, snap.Total)
	assert.False(t, snap.HasPrev())
	assert.True(t, snap.HasNext())
	assert.Equal(t, []listCall{{token: "tok-1", page: 1, perPage: 2}}, fc.listCalls)
}

func TestFetchPage_DefaultPerPageAndNoClamping(t *testing.T) {
	fc := newFakeClient("A")
	c, _ := loggedIn(t, fc)

	_, err := c.FetchPage(context.Background(), 0, 0)
	require.NoError(t, err)
	_, err = c.FetchPage(context.Background(), 99, 0)
	require.NoError(t, err)

	assert.Equal(t, listCall{token: "tok-1", page: 0, perPage: 20}, fc.listCalls[0])
	assert.Equal(t, listCall{token: "tok-1", page: 99, perPage: 20}, fc.listCalls[1])
	assert.Empty(t, c.Snapshot().Resumes)
}

func TestFetchPage_UnauthorizedForcesLogout(t *testing.T) {
	fc := newFakeClient("A")
	invalidated := 0
	c, store := loggedIn(t, fc, WithSessionInvalidHandler(func() { invalidated++ }))
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	fc.listErr = unauthorized()
	_, err = c.FetchPage(context.Background(), 1, 0)

	require.ErrorIs(t, err, ErrSessionInvalid)
	assert.True(t, api.IsUnauthorized(err))
	assert.Equal(t, 1, invalidated)
	assert.False(t, c.Authenticated())
	v, _ := store.Load(session.TokenKey)
	assert.Empty(t, v)
	assert.Empty(t, c.Snapshot().Resumes)
}

func TestFetchPage_OtherErrorsKeepState(t *testing.T) {
	fc := newFakeClient("A")
	invalidated := false
	c, _ := loggedIn(t, fc, WithSessionInvalidHandler(func() { invalidated = true }))
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	fc.listErr = &api.Error{Kind: api.KindHTTP, Status: http.StatusInternalServerError, Message: "Failed to fetch resumes"}
	_, err = c.FetchPage(context.Background(), 2, 0)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.False(t, invalidated)
	assert.True(t, snap.Authenticated)
	assert.Equal(t, 1, snap.Page)
	assert.Len(t, snap.Resumes, 1)
	assert.Equal(t, err, snap.Err)
}

func TestFetchPage_SupersededResponseIsDiscarded(t *testing.T) {
	fc := newFakeClient("A", "B", "C")
	c, _ := loggedIn(t, fc)

	var newer *types.ListResponse
	fc.listHook = func(page int) {
		if page != 1 {
			return
		}
		fc.mu.Lock()
		fc.listHook = nil
		fc.mu.Unlock()
		var err error
		newer, err = c.FetchPage(context.Background(), 2, 2)
		require.NoError(t, err)
	}

	_, err := c.FetchPage(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrStale)
	require.NotNil(t, newer)

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Page)
	require.Len(t, snap.Resumes, 1)
	assert.Equal(t, "C", snap.Resumes[0].FullName)
}

func TestFetchPage_LogoutDiscardsLateResponse(t *testing.T) {
	fc := newFakeClient("A")
	c, _ := loggedIn(t, fc)
	fc.listHook = func(int) { c.ForceLogout() }

	_, err := c.FetchPage(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrStale)
	assert.Empty(t, c.Snapshot().Resumes)
}

func TestSelectAndClear(t *testing.T) {
	fc := newFakeClient("Jane Doe")
	c, _ := loggedIn(t, fc)
	ctx := context.Background()

	assert.Equal(t, ViewList, c.Snapshot().View)

	resume, err := c.SelectResume(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resume.FullName)

	snap := c.Snapshot()
	assert.Equal(t, ViewDetail, snap.View)
	assert.Equal(t, "id-1", snap.SelectedID)
	assert.Equal(t, "Jane Doe", snap.Selected.FullName)

	c.ClearSelection()
	snap = c.Snapshot()
	assert.Equal(t, ViewList, snap.View)
	assert.Nil(t, snap.Selected)
}

func TestSelect_FailureStaysInList(t *testing.T) {
	fc := newFakeClient("Jane")
	c, _ := loggedIn(t, fc)

	_, err := c.SelectResume(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))
	assert.Equal(t, ViewList, c.Snapshot().View)
	assert.True(t, c.Authenticated())
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	fc := newFakeClient("A")
	c, _ := loggedIn(t, fc)

	assert.ErrorIs(t, c.DeleteResume(context.Background(), "id-1", Declined), ErrNotConfirmed)
	assert.Empty(t, fc.deleteCalls)
	assert.Len(t, fc.resumes, 1)
}

func TestDelete_RefetchesCurrentPageOnce(t *testing.T) {
	fc := newFakeClient("A", "B", "C")
	c, _ := loggedIn(t, fc)
	ctx := context.Background()

	_, err := c.FetchPage(ctx, 2, 2)
	require.NoError(t, err)
	before := fc.listCount()

	require.NoError(t, c.DeleteResume(ctx, "id-1", Confirmed))

	assert.Equal(t, []string{"id-1"}, fc.deleteCalls)
	assert.Equal(t, before+1, fc.listCount())
	assert.Equal(t, listCall{token: "tok-1", page: 2, perPage: 2}, fc.listCalls[len(fc.listCalls)-1])

	snap := c.Snapshot()
	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Empty(t, snap.Resumes)
}

func TestDelete_FailureDoesNotRefetch(t *testing.T) {
	fc := newFakeClient("A")
	c, _ := loggedIn(t, fc)
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)
	before := fc.listCount()

	err = c.DeleteResume(context.Background(), "missing", Confirmed)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.Equal(t, before, fc.listCount())
}

func TestDelete_Unauthorized(t *testing.T) {
	fc := newFakeClient("A")
	c, _ := loggedIn(t, fc)
	fc.deleteErr = unauthorized()

	err := c.DeleteResume(context.Background(), "id-1", Confirmed)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.False(t, c.Authenticated())
}

func TestDownloads(t *testing.T) {
	fc := newFakeClient("Jane Q. Public")
	c, _ := loggedIn(t, fc)

	artifact, err := c.DownloadAsAdmin(context.Background(), "id-1", "Jane Q. Public")
	require.NoError(t, err)
	assert.Equal(t, "Jane_Q._Public_resume.pdf", artifact.Filename)

	own, err := c.DownloadOwn(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, "resume_id-1.pdf", own.Filename)

	fc.dlErr = errors.New("network down")
	_, err = c.DownloadAsAdmin(context.Background(), "id-1", "Jane")
	require.Error(t, err)
	assert.True(t, c.Authenticated())
}

func TestDownloadPage(t *testing.T) {
	fc := newFakeClient("Ann Lee", "Bo Chen", "Cy Diaz")
	c, _ := loggedIn(t, fc, WithDownloadWorkers(2))
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := c.DownloadPage(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Ann_Lee_resume.pdf"),
		filepath.Join(dir, "Bo_Chen_resume.pdf"),
		filepath.Join(dir, "Cy_Diaz_resume.pdf"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "%PDF-id-2", string(data))

	calls := append([]string(nil), fc.dlCalls...)
	sort.Strings(calls)
	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, calls)
}

func TestDownloadPage_Unauthorized(t *testing.T) {
	fc := newFakeClient("Ann")
	c, _ := loggedIn(t, fc)
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	fc.dlErr = unauthorized()
	_, err = c.DownloadPage(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.False(t, c.Authenticated())
}

func TestLogout_BestEffort(t *testing.T) {
	fc := newFakeClient("A")
	c, store := loggedIn(t, fc)
	_, err := c.FetchPage(context.Background(), 1, 0)
	require.NoError(t, err)

	fc.logoutErr = &api.Error{Kind: api.KindTransport, Message: "Unable to reach the server"}
	c.Logout(context.Background())

	assert.Equal(t, []string{"tok-1"}, fc.logoutCalls)
	assert.False(t, c.Authenticated())
	v, _ := store.Load(session.TokenKey)
	assert.Empty(t, v)
	snap := c.Snapshot()
	assert.Empty(t, snap.Resumes)
	assert.Equal(t, 0, snap.Page)
}

func TestLogout_WithoutSessionSkipsServer(t *testing.T) {
	fc := newFakeClient()
	c := New(fc, nil)
	c.Logout(context.Background())
	assert.Empty(t, fc.logoutCalls)
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "list", ViewList.String())
	assert.Equal(t, "detail", ViewDetail.String())
}
