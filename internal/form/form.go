// Package form holds the resume draft being edited and drives its submission.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/resume-builder/internal/api"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/sirupsen/logrus"
)

// State is the submission state of a draft.
type State int

const (
	Editing State = iota
	Submitting
	Submitted
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotEditing is returned when a transition requires the Editing state.
	ErrNotEditing = errors.New("form is not in the editing state")
	// ErrNotSubmitted is returned by DownloadPDF before a successful submission.
	ErrNotSubmitted = errors.New("resume has not been submitted")
	// ErrStale is returned when the form was reset while a request was in flight.
	ErrStale = errors.New("form was reset during the request")
	// ErrNoResumeID is returned by Submit when the server accepted the request
	// but did not report a resume id.
	ErrNoResumeID = errors.New("server response did not include a resume id")
)

// ValidationError is returned by Submit when required fields are missing or malformed.
type ValidationError = types.ResumeValidationError

// Submitter is the subset of the API client used by the form.
type Submitter interface {
	SubmitResume(ctx context.Context, data *types.ResumeData) (*types.SubmitResponse, error)
	DownloadResumePDF(ctx context.Context, resumeID string) (*api.Artifact, error)
}

// Form owns one draft and mediates every change to it.
type Form struct {
	mu sync.Mutex

	client Submitter
	logger logrus.FieldLogger

	draft      *types.ResumeData
	state      State
	resumeID   string
	lastErr    error
	generation uint64
}

// Option configures a Form.
type Option func(*Form)

// WithLogger sets the form logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a form with an empty draft.
func New(client Submitter, opts ...Option) *Form {
	f := &Form{
		client: client,
		logger: logging.Discard(),
		draft:  types.NewResumeData(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() *types.ResumeData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Clone()
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ResumeID returns the identifier assigned by the server, or "" before submission.
func (f *Form) ResumeID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumeID
}

// Err returns the error of the last failed transition, if any.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Apply performs one edit and reports whether the draft changed.
// Edits are accepted only while editing.
func (f *Form) Apply(e Edit) bool {
	if e == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return false
	}
	return e.apply(f.draft)
}

// ApplyAll performs edits in order and returns how many changed the draft.
func (f *Form) ApplyAll(edits ...Edit) int {
	n := 0
	for _, e := range edits {
		if f.Apply(e) {
			n++
		}
	}
	return n
}

// LoadDraft replaces the draft with a copy of data.
func (f *Form) LoadDraft(data *types.ResumeData) error {
	if data == nil {
		return errors.New("draft is nil")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Editing {
		return ErrNotEditing
	}
	d := data.Clone()
	d.Normalize()
	f.draft = d
	return nil
}

// Submit sends a snapshot of the draft and returns the assigned resume id.
// A failure returns the form to Editing with the draft untouched.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != Editing {
		f.mu.Unlock()
		return "", ErrNotEditing
	}
	if err := f.draft.CheckRequired(); err != nil {
		f.lastErr = err
		f.mu.Unlock()
		return "", err
	}
	snapshot := f.draft.Clone()
	f.state = Submitting
	f.lastErr = nil
	gen := f.generation
	f.mu.Unlock()

	f.logger.WithField("full_name", snapshot.FullName).Debug("submitting resume")
	resp, err := f.client.SubmitResume(ctx, snapshot)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		f.logger.Debug("discarding submission result for a reset form")
		return "", ErrStale
	}
	if err == nil && (resp == nil || resp.ResumeID == "") {
		err = ErrNoResumeID
	}
	if err != nil {
		f.state = Editing
		f.lastErr = err
		f.logger.WithError(err).Warn("resume submission failed")
		return "", err
	}

	f.state = Submitted
	f.resumeID = resp.ResumeID
	f.logger.WithField("resume_id", resp.ResumeID).Info("resume submitted")
	return resp.ResumeID, nil
}

// DownloadPDF fetches the PDF of the submitted resume. It does not change state.
func (f *Form) DownloadPDF(ctx context.Context) (*api.Artifact, error) {
	f.mu.Lock()
	state, id := f.state, f.resumeID
	f.mu.Unlock()
	if state != Submitted {
		return nil, ErrNotSubmitted
	}

	artifact, err := f.client.DownloadResumePDF(ctx, id)
	if err != nil {
		f.mu.Lock()
		f.lastErr = err
		f.mu.Unlock()
		return nil, err
	}
	return artifact, nil
}

// Reset discards the draft and starts a new one. A submission still in flight
// is ignored when it completes.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.draft = types.NewResumeData()
	f.state = Editing
	f.resumeID = ""
	f.lastErr = nil
}
