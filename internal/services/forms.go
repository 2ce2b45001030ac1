package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"medadmit/internal/domain"
	"medadmit/internal/logging"
	"medadmit/internal/metrics"
	"medadmit/internal/store"
	"medadmit/internal/validation"
	apperrors "medadmit/pkg/errors"
)

const notifyTimeout = 30 * time.Second

// Form names, used as metric labels and in notification subjects.
const (
	FormLead          = "lead"
	FormContact       = "contact"
	FormNewsletter    = "newsletter"
	FormBamsAdmission = "bams_admission"
)

// FormOptions describes how one public form reports failures.
type FormOptions struct {
	Form             string
	FailureMessage   string
	DuplicateMessage string
}

// FormService validates, persists and announces submissions of one form.
type FormService[T domain.Record] struct {
	opts     FormOptions
	repo     *store.Repository[T]
	notifier Notifier
	log      *logrus.Entry
	pending  sync.WaitGroup
}

// NewFormService creates a form service. notifier may be nil.
func NewFormService[T domain.Record](opts FormOptions, repo *store.Repository[T], notifier Notifier) *FormService[T] {
	return &FormService[T]{
		opts:     opts,
		repo:     repo,
		notifier: notifier,
		log:      logging.For(opts.Form),
	}
}

// Submit normalizes and validates in, then stores the resulting record.
// Nothing is persisted when validation fails.
func (s *FormService[T]) Submit(ctx context.Context, in validation.Submission[T]) (*T, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		metrics.RecordFormSubmission(s.opts.Form, "invalid")
		if apperrors.IsValidation(err) {
			s.log.WithError(err).Debug("Submission rejected")
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeBadRequest, "Invalid request body", err)
	}

	rec := in.Record()
	if err := s.repo.Create(ctx, rec); err != nil {
		if store.IsDuplicate(err) && s.opts.DuplicateMessage != "" {
			metrics.RecordFormSubmission(s.opts.Form, "duplicate")
			s.log.Info("Duplicate submission rejected")
			return nil, apperrors.Wrap(apperrors.ErrCodeConflict, s.opts.FailureMessage, errors.New(s.opts.DuplicateMessage))
		}
		metrics.RecordFormSubmission(s.opts.Form, "error")
		s.log.WithError(err).Error("Failed to store submission")
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, s.opts.FailureMessage, err)
	}

	metrics.RecordFormSubmission(s.opts.Form, "success")
	s.log.WithField("id", (*rec).GetID()).Info("Submission stored")
	s.notify(ctx, *rec)

	return rec, nil
}

// notify runs in the background and never fails the submission.
func (s *FormService[T]) notify(ctx context.Context, rec T) {
	if s.notifier == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifySubmission(ctx, s.opts.Form, rec); err != nil {
			s.log.WithError(err).WithField("id", rec.GetID()).Warn("Failed to send notification email")
		}
	}()
}

// Wait blocks until in-flight notifications have finished.
func (s *FormService[T]) Wait() {
	s.pending.Wait()
}

// List returns stored submissions newest first
func (s *FormService[T]) List(ctx context.Context, limit int) ([]T, error) {
	rows, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalError, "Failed to fetch "+s.opts.Form+" submissions", err)
	}
	return rows, nil
}

// Forms groups the four public submission services.
type Forms struct {
	Leads          *FormService[domain.Lead]
	Contacts       *FormService[domain.Contact]
	Newsletters    *FormService[domain.Newsletter]
	BamsAdmissions *FormService[domain.BamsAdmission]
}

// NewForms wires a form service per public table
func NewForms(stores *store.Stores, notifier Notifier) *Forms {
	return &Forms{
		Leads: NewFormService(FormOptions{
			Form:           FormLead,
			FailureMessage: "Failed to submit lead",
		}, stores.Leads, notifier),
		Contacts: NewFormService(FormOptions{
			Form:           FormContact,
			FailureMessage: "Failed to submit contact form",
		}, stores.Contacts, notifier),
		Newsletters: NewFormService(FormOptions{
			Form:             FormNewsletter,
			FailureMessage:   "Failed to subscribe to newsletter",
			DuplicateMessage: "email is already subscribed",
		}, stores.Newsletters, notifier),
		BamsAdmissions: NewFormService(FormOptions{
			Form:           FormBamsAdmission,
			FailureMessage: "Failed to submit BAMS admission enquiry",
		}, stores.BamsAdmissions, notifier),
	}
}

// Wait drains pending notifications of every form
func (f *Forms) Wait() {
	f.Leads.Wait()
	f.Contacts.Wait()
	f.Newsletters.Wait()
	f.BamsAdmissions.Wait()
}
