package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/fadilmartias/jobapply/internal/repository"
	"github.com/fadilmartias/jobapply/internal/service"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	ConfirmationPath     = "/thankyou"
	SubmitFailedMessage  = "There was an issue submitting your form. Please try again."
	SubmitSuccessMessage = "Form submitted successfully"
)

// DraftView is a draft together with the errors the applicant should currently see.
type DraftView struct {
	Draft  *model.Draft
	Errors form.FieldErrors
}

type SubmitResult struct {
	Reference string
	Redirect  string
}

// RejectedDocumentError is returned when an upload fails inspection. The draft is unchanged.
type RejectedDocumentError struct {
	Kind model.DocumentKind
	Err  error
}

func (e *RejectedDocumentError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Kind, e.Err)
}

func (e *RejectedDocumentError) Unwrap() error {
	return e.Err
}

func (e *RejectedDocumentError) FieldErrors() form.FieldErrors {
	return form.DocumentErrors(e.Kind, errors.Is(e.Err, service.ErrDocumentTooLarge))
}

type ApplicationUsecase struct {
	drafts    repository.DraftRepositoryInterface
	flow      *form.Flow
	documents service.DocumentServiceInterface
	submitter service.SubmissionServiceInterface
	inflight  singleflight.Group
	now       func() time.Time
}

func NewApplicationUsecase(drafts repository.DraftRepositoryInterface, flow *form.Flow, documents service.DocumentServiceInterface, submitter service.SubmissionServiceInterface) *ApplicationUsecase {
	return &ApplicationUsecase{
		drafts:    drafts,
		flow:      flow,
		documents: documents,
		submitter: submitter,
		now:       time.Now,
	}
}

func (uc *ApplicationUsecase) Start(ctx context.Context) (*DraftView, error) {
	d := model.NewDraft(uc.now())
	if err := uc.drafts.CreateDraft(ctx, d); err != nil {
		return nil, err
	}
	return uc.view(d), nil
}

func (uc *ApplicationUsecase) Get(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	d, err := uc.drafts.FindDraftByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.view(d), nil
}

// UpdateFields applies every field or none. Applied paths become touched.
func (uc *ApplicationUsecase) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		applied, err := form.ApplyFields(&d.Values, fields)
		if err != nil {
			return err
		}
		d.Touch(applied...)
		return nil
	})
}

func (uc *ApplicationUsecase) AddWorkDetail(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		d.Values.AddWorkDetail()
		return nil
	})
}

func (uc *ApplicationUsecase) RemoveWorkDetail(ctx context.Context, id uuid.UUID, index int) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		if err := d.Values.RemoveWorkDetail(index); err != nil {
			return err
		}
		d.ShiftTouched("workDetails", index)
		return nil
	})
}

func (uc *ApplicationUsecase) AddEducationDetail(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		d.Values.AddEducationDetail()
		return nil
	})
}

func (uc *ApplicationUsecase) RemoveEducationDetail(ctx context.Context, id uuid.UUID, index int) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		if err := d.Values.RemoveEducationDetail(index); err != nil {
			return err
		}
		d.ShiftTouched("educationalDetails", index)
		return nil
	})
}

func (uc *ApplicationUsecase) AttachDocument(ctx context.Context, id uuid.UUID, kind model.DocumentKind, filename string, data []byte) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		att, err := uc.documents.Inspect(kind, filename, data)
		if err != nil {
			return &RejectedDocumentError{Kind: kind, Err: err}
		}
		d.Values.SetDocument(kind, att)
		d.Touch(string(kind))
		return nil
	})
}

func (uc *ApplicationUsecase) RemoveDocument(ctx context.Context, id uuid.UUID, kind model.DocumentKind) (*DraftView, error) {
	return uc.edit(ctx, id, func(d *model.Draft) error {
		d.Values.SetDocument(kind, nil)
		d.Touch(string(kind))
		return nil
	})
}

// Next advances one step. A blocked transition still persists the newly touched fields
// so the errors stay visible.
func (uc *ApplicationUsecase) Next(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	d, err := uc.drafts.FindDraftByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := d.Step
	if err := uc.flow.Next(d); err != nil {
		return uc.persistRejected(ctx, d, err)
	}
	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	log.Printf("Draft %s moved %s -> %s", d.ID, from, d.Step)
	return uc.view(d), nil
}

func (uc *ApplicationUsecase) Back(ctx context.Context, id uuid.UUID) (*DraftView, error) {
	return uc.edit(ctx, id, uc.flow.Back)
}

func (uc *ApplicationUsecase) Discard(ctx context.Context, id uuid.UUID) error {
	return uc.drafts.DeleteDraft(ctx, id)
}

// Submit validates the whole application and sends it once. Concurrent calls for the same
// draft share a single outbound request. On failure the draft is left as it was.
func (uc *ApplicationUsecase) Submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	res, err, shared := uc.inflight.Do(id.String(), func() (any, error) {
		return uc.submit(ctx, id)
	})
	if shared {
		log.Printf("Draft %s: joined in-flight submission", id)
	}
	if err != nil {
		return nil, err
	}
	return res.(*SubmitResult), nil
}

func (uc *ApplicationUsecase) submit(ctx context.Context, id uuid.UUID) (*SubmitResult, error) {
	d, err := uc.drafts.FindDraftByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.flow.CheckSubmit(d); err != nil {
		_, err = uc.persistRejected(ctx, d, err)
		return nil, err
	}

	receipt, err := uc.submitter.Submit(ctx, &d.Values)
	if err != nil {
		log.Printf("Draft %s: submission failed: %v", d.ID, err)
		return nil, err
	}

	if err := uc.flow.Complete(d); err != nil {
		return nil, err
	}
	if err := uc.drafts.DeleteDraft(ctx, d.ID); err != nil && !errors.Is(err, repository.ErrDraftNotFound) {
		log.Printf("Draft %s: submitted but could not be discarded: %v", d.ID, err)
	}
	log.Printf("Draft %s submitted (status %d, reference %q)", d.ID, receipt.StatusCode, receipt.Reference)

	return &SubmitResult{Reference: receipt.Reference, Redirect: ConfirmationPath}, nil
}

func (uc *ApplicationUsecase) edit(ctx context.Context, id uuid.UUID, mutate func(*model.Draft) error) (*DraftView, error) {
	d, err := uc.drafts.FindDraftByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Step.Editable() {
		return nil, fmt.Errorf("%w: draft is %s", form.ErrInvalidTransition, d.Step)
	}
	if err := mutate(d); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	return uc.view(d), nil
}

// persistRejected saves the touched set after a failed gate and hands back the gate error.
func (uc *ApplicationUsecase) persistRejected(ctx context.Context, d *model.Draft, gateErr error) (*DraftView, error) {
	var verr *form.ValidationError
	if !errors.As(gateErr, &verr) {
		return nil, gateErr
	}
	if err := uc.save(ctx, d); err != nil {
		return nil, err
	}
	return nil, gateErr
}

func (uc *ApplicationUsecase) save(ctx context.Context, d *model.Draft) error {
	d.UpdatedAt = uc.now()
	return uc.drafts.UpdateDraft(ctx, d)
}

func (uc *ApplicationUsecase) view(d *model.Draft) *DraftView {
	return &DraftView{Draft: d, Errors: uc.flow.VisibleErrors(d)}
}
