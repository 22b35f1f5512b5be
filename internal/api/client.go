package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultPerPage is the page size used by the admin list.
const DefaultPerPage = 20

const (
	genericErrorMessage  = "An error occurred"
	downloadErrorMessage = "Failed to download PDF"
	transportMessage     = "Unable to reach the server"
)

// Client translates model operations into requests against the resume service.
// It holds no session state: session-scoped calls take the bearer token explicitly.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the API rooted at baseURL (for example http://localhost:5000/api).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitResume posts a new resume. Public endpoint.
func (c *Client) SubmitResume(ctx context.Context, data *types.ResumeData) (*types.SubmitResponse, error) {
	var out types.SubmitResponse
	if err := c.doJSON(ctx, http.MethodPost, "/resumes", nil, "", data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadResumePDF fetches the PDF of a resume by id. Public endpoint.
func (c *Client) DownloadResumePDF(ctx context.Context, resumeID string) (*Artifact, error) {
	path := "/resumes/" + url.PathEscape(resumeID) + "/pdf"
	return c.doBinary(ctx, path, "", OwnFilename(resumeID))
}

// Login exchanges admin credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*types.LoginResponse, error) {
	req := types.LoginRequest{Email: email, Password: password}
	var out types.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/admin/login", nil, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session on the server.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/logout", nil, token, nil, nil)
}

// ListResumes fetches one page of resume summaries. The page is passed through unclamped.
func (c *Client) ListResumes(ctx context.Context, token string, page, perPage int) (*types.ListResponse, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var out types.ListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/resumes", query, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResume fetches one full resume.
func (c *Client) GetResume(ctx context.Context, token, resumeID string) (*types.ResumeData, error) {
	var out types.ResumeData
	path := "/admin/resumes/" + url.PathEscape(resumeID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, token, nil, &out); err != nil {
		return nil, err
	}
	out.Normalize()
	return &out, nil
}

// DownloadResumeAsAdmin fetches the PDF of any resume, named after the candidate.
func (c *Client) DownloadResumeAsAdmin(ctx context.Context, token, resumeID, fullName string) (*Artifact, error) {
	path := "/admin/resumes/" + url.PathEscape(resumeID) + "/pdf"
	return c.doBinary(ctx, path, token, AdminFilename(fullName))
}

// DeleteResume deletes a resume.
func (c *Client) DeleteResume(ctx context.Context, token, resumeID string) error {
	path := "/admin/resumes/" + url.PathEscape(resumeID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, token, nil, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, token string, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and returns the response for status >= 200 && < 300.
// Any other outcome is converted into *Error.
func (c *Client) do(req *http.Request, fallback string) (*http.Response, error) {
	start := time.Now()
	log := c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   req.URL.Path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &Error{Kind: KindTransport, Message: transportMessage, Cause: err}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer func() { _ = resp.Body.Close() }()
		apiErr := newStatusError(resp.StatusCode, readErrorMessage(resp.Body, fallback))
		log.WithField("error", apiErr.Message).Warn("request rejected")
		return nil, apiErr
	}

	log.Debug("request completed")
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, token, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req, genericErrorMessage)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: transportMessage, Cause: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.StatusCode, Message: "Unexpected response from server", Cause: err}
	}
	return nil
}

func (c *Client) doBinary(ctx context.Context, path, token, filename string) (*Artifact, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, token, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.do(req, downloadErrorMessage)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Status: resp.StatusCode, Message: downloadErrorMessage, Cause: err}
	}

	return &Artifact{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// readErrorMessage extracts "error" or "message" from a JSON error body.
// Validation details, when present as a list of strings, are appended to the message.
func readErrorMessage(body io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var payload struct {
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}

	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		return fallback
	}

	var details []string
	if len(payload.Details) > 0 && json.Unmarshal(payload.Details, &details) == nil && len(details) > 0 {
		msg += ": " + strings.Join(details, "; ")
	}
	return msg
}
