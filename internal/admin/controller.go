// Package admin implements the admin console: session, paged resume list,
// detail view, downloads and confirmed deletes.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotAuthenticated is returned by session-scoped calls when no token is held.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrSessionInvalid wraps a 401 from the server. The session has already been cleared.
	ErrSessionInvalid = errors.New("session expired, please log in")
	// ErrNotConfirmed is returned by DeleteResume without an explicit confirmation.
	ErrNotConfirmed = errors.New("deletion was not confirmed")
	// ErrStale is returned when a newer request or a logout superseded the response.
	ErrStale = errors.New("response superseded by a newer request")
	// ErrNoCredential is returned when a login response carries no token.
	ErrNoCredential = errors.New("login response did not include a session token")
)

// Client is the subset of the API client used by the controller.
type Client interface {
	Login(ctx context.Context, email, password string) (*types.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ListResumes(ctx context.Context, token string, page, perPage int) (*types.ListResponse, error)
	GetResume(ctx context.Context, token, resumeID string) (*types.ResumeData, error)
	DownloadResumeAsAdmin(ctx context.Context, token, resumeID, fullName string) (*api.Artifact, error)
	DownloadResumePDF(ctx context.Context, resumeID string) (*api.Artifact, error)
	DeleteResume(ctx context.Context, token, resumeID string) error
}

// View is the visible part of the console.
type View int

const (
	ViewList View = iota
	ViewDetail
)

func (v View) String() string {
	if v == ViewDetail {
		return "detail"
	}
	return "list"
}

// Confirmation is the answer to "delete this resume?". The view layer obtains it.
type Confirmation bool

const (
	Declined  Confirmation = false
	Confirmed Confirmation = true
)

// Controller owns the admin session and the data displayed by the console.
type Controller struct {
	client  Client
	session *session.Session
	logger  logrus.FieldLogger

	onSessionInvalid func()
	downloadWorkers  int

	mu         sync.Mutex
	view       View
	page       int
	perPage    int
	list       *types.ListResponse
	selectedID string
	selected   *types.ResumeData
	lastErr    error
	listGen    uint64
	detailGen  uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSessionInvalidHandler registers fn to run after a 401 forced a logout.
func WithSessionInvalidHandler(fn func()) Option {
	return func(c *Controller) {
		c.onSessionInvalid = fn
	}
}

// WithDownloadWorkers bounds the parallelism of DownloadPage.
func WithDownloadWorkers(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.downloadWorkers = n
		}
	}
}

// New creates a controller bound to an explicit session.
func New(client Client, sess *session.Session, opts ...Option) *Controller {
	if sess == nil {
		sess, _ = session.Open(session.NewMemoryStore())
	}
	c := &Controller{
		client:          client,
		session:         sess,
		logger:          logging.Discard(),
		downloadWorkers: 4,
		perPage:         api.DefaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the controller reads and writes.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Authenticated reports whether a session token is held.
func (c *Controller) Authenticated() bool {
	return c.session.Authenticated()
}

// Login exchanges credentials for a session token and stores it.
// On failure nothing changes.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	resp, err := c.client.Login(ctx, email, password)
	if err != nil {
		c.setErr(err)
		c.logger.WithError(err).Warn("admin login failed")
		return err
	}
	token := resp.Credential()
	if token == "" {
		c.setErr(ErrNoCredential)
		return ErrNoCredential
	}

	if err := c.session.Set(token); err != nil {
		c.logger.WithError(err).Warn("session token could not be persisted")
	}
	c.mu.Lock()
	c.lastErr = nil
	c.view = ViewList
	c.mu.Unlock()
	c.logger.WithField("email", email).Info("admin logged in")
	return nil
}

// Logout notifies the server and clears the session. The server call is best
// effort: local logout always happens.
func (c *Controller) Logout(ctx context.Context) {
	if token := c.session.Token(); token != "" {
		if err := c.client.Logout(ctx, token); err != nil {
			c.logger.WithError(err).Warn("logout request failed")
		}
	}
	c.ForceLogout()
}

// ForceLogout clears the session and all held data without a network call.
func (c *Controller) ForceLogout() {
	c.mu.Lock()
	c.listGen++
	c.detailGen++
	c.view = ViewList
	c.page = 0
	c.list = nil
	c.selectedID = ""
	c.selected = nil
	c.mu.Unlock()

	if err := c.session.Clear(); err != nil {
		c.logger.WithError(err).Warn("persisted session could not be removed")
	}
}

// FetchPage replaces the held list with the given page. The page is not
// clamped; the server response is trusted. perPage <= 0 means the default.
func (c *Controller) FetchPage(ctx context.Context, page, perPage int) (*types.ListResponse, error) {
	if perPage <= 0 {
		perPage = api.DefaultPerPage
	}
	token := c.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	c.listGen++
	gen := c.listGen
	c.mu.Unlock()

	resp, err := c.client.ListResumes(ctx, token, page, perPage)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.listGen {
		return nil, ErrStale
	}
	c.page = page
	c.perPage = perPage
	c.list = resp
	c.lastErr = nil
	c.logger.WithFields(logrus.Fields{
		"page":        page,
		"total_pages": resp.TotalPages,
		"count":       len(resp.Resumes),
	}).Debug("resume page loaded")
	return resp, nil
}

// Refresh re-fetches the current page, or page 1 if none was loaded.
func (c *Controller) Refresh(ctx context.Context) (*types.ListResponse, error) {
	c.mu.Lock()
	page, perPage := c.page, c.perPage
	c.mu.Unlock()
	if page == 0 {
		page = 1
	}
	return c.FetchPage(ctx, page, perPage)
}

// SelectResume loads one full resume and switches to the detail view.
func (c *Controller) SelectResume(ctx context.Context, id string) (*types.ResumeData, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	c.detailGen++
	gen := c.detailGen
	c.mu.Unlock()

	resume, err := c.client.GetResume(ctx, token, id)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.detailGen {
		return nil, ErrStale
	}
	c.selectedID = id
	c.selected = resume
	c.view = ViewDetail
	c.lastErr = nil
	return resume.Clone(), nil
}

// ClearSelection returns to the list view. A detail request still in flight is discarded.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailGen++
	c.selectedID = ""
	c.selected = nil
	c.view = ViewList
}

// DeleteResume deletes a resume after an explicit confirmation, then reloads
// the current page from the server.
func (c *Controller) DeleteResume(ctx context.Context, id string, confirm Confirmation) error {
	if confirm != Confirmed {
		return ErrNotConfirmed
	}
	token := c.session.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	if err := c.client.DeleteResume(ctx, token, id); err != nil {
		return c.fail(err)
	}
	c.logger.WithField("resume_id", id).Info("resume deleted")

	if _, err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("resume deleted but the list could not be refreshed: %w", err)
	}
	return nil
}

// DownloadAsAdmin downloads any resume's PDF, named after the candidate.
func (c *Controller) DownloadAsAdmin(ctx context.Context, id, fullName string) (*api.Artifact, error) {
	token := c.session.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	artifact, err := c.client.DownloadResumeAsAdmin(ctx, token, id, fullName)
	if err != nil {
		return nil, c.fail(err)
	}
	return artifact, nil
}

// DownloadOwn downloads a resume through the public endpoint.
func (c *Controller) DownloadOwn(ctx context.Context, id string) (*api.Artifact, error) {
	artifact, err := c.client.DownloadResumePDF(ctx, id)
	if err != nil {
		c.setErr(err)
		return nil, err
	}
	return artifact, nil
}

// fail records err and, for a 401, forces a logout and notifies the owner.
func (c *Controller) fail(err error) error {
	if api.IsUnauthorized(err) {
		c.logger.Warn("session rejected by server, logging out")
		c.ForceLogout()
		if c.onSessionInvalid != nil {
			c.onSessionInvalid()
		}
		err = fmt.Errorf("%w: %w", ErrSessionInvalid, err)
	}
	c.setErr(err)
	return err
}

func (c *Controller) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}
