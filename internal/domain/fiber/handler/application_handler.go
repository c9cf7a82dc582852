package handler

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/fadilmartias/jobapply/internal/dto"
	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/middleware"
	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/fadilmartias/jobapply/internal/response"
	"github.com/fadilmartias/jobapply/internal/service"
	"github.com/fadilmartias/jobapply/internal/usecase"
	"github.com/fadilmartias/jobapply/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type ApplicationHandler struct {
	uc       *usecase.ApplicationUsecase
	validate *validator.Validate
}

func NewApplicationHandler(uc *usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, validate: validator.New()}
}

func (h *ApplicationHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/applications")
	g.Post("/", h.Start)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.UpdateFields)
	g.Delete("/:id", h.Discard)

	g.Post("/:id/work-details", h.AddWorkDetail)
	g.Delete("/:id/work-details/:index", h.RemoveWorkDetail)
	g.Post("/:id/educational-details", h.AddEducationDetail)
	g.Delete("/:id/educational-details/:index", h.RemoveEducationDetail)

	g.Put("/:id/documents/:field", h.AttachDocument)
	g.Delete("/:id/documents/:field", h.RemoveDocument)

	g.Post("/:id/next", h.Next)
	g.Post("/:id/back", h.Back)
	g.Post("/:id/submit", middleware.RateLimiter(5, 1*time.Minute), h.Submit)
}

func (h *ApplicationHandler) Start(c *fiber.Ctx) error {
	view, err := h.uc.Start(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	draftsStarted.Inc()
	return h.draftResponse(c, fiber.StatusCreated, "Application started", view)
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	view, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return h.draftResponse(c, fiber.StatusOK, "Success get application", view)
}

func (h *ApplicationHandler) UpdateFields(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "fields must be a non-empty object")
	}
	view, err := h.uc.UpdateFields(c.UserContext(), id, req.Fields)
	if err != nil {
		return respondError(c, err)
	}
	return h.draftResponse(c, fiber.StatusOK, "Application updated", view)
}

func (h *ApplicationHandler) Discard(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	if err := h.uc.Discard(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Application discarded",
	})
}

func (h *ApplicationHandler) AddWorkDetail(c *fiber.Ctx) error {
	return h.withDraft(c, fiber.StatusCreated, "Work experience added", h.uc.AddWorkDetail)
}

func (h *ApplicationHandler) RemoveWorkDetail(c *fiber.Ctx) error {
	return h.withEntry(c, "Work experience removed", h.uc.RemoveWorkDetail)
}

func (h *ApplicationHandler) AddEducationDetail(c *fiber.Ctx) error {
	return h.withDraft(c, fiber.StatusCreated, "Education detail added", h.uc.AddEducationDetail)
}

func (h *ApplicationHandler) RemoveEducationDetail(c *fiber.Ctx) error {
	return h.withEntry(c, "Education detail removed", h.uc.RemoveEducationDetail)
}

func (h *ApplicationHandler) AttachDocument(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	kind, ok := model.ParseDocumentKind(c.Params("field"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown document field")
	}

	filename, data, err := h.processFile(c, kind)
	if err != nil {
		documentUploads.WithLabelValues(string(kind), "rejected").Inc()
		return respondError(c, err)
	}

	view, err := h.uc.AttachDocument(c.UserContext(), id, kind, filename, data)
	if err != nil {
		documentUploads.WithLabelValues(string(kind), "rejected").Inc()
		return respondError(c, err)
	}
	documentUploads.WithLabelValues(string(kind), "accepted").Inc()
	return h.draftResponse(c, fiber.StatusOK, "Document uploaded", view)
}

// processFile reads the multipart "file" part into memory. Oversize parts are refused
// before they are read.
func (h *ApplicationHandler) processFile(c *fiber.Ctx, kind model.DocumentKind) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if file.Size > model.DocumentRules[kind].MaxBytes {
		return "", nil, &usecase.RejectedDocumentError{Kind: kind, Err: service.ErrDocumentTooLarge}
	}

	f, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return file.Filename, data, nil
}

func (h *ApplicationHandler) RemoveDocument(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	kind, ok := model.ParseDocumentKind(c.Params("field"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown document field")
	}
	view, err := h.uc.RemoveDocument(c.UserContext(), id, kind)
	if err != nil {
		return respondError(c, err)
	}
	return h.draftResponse(c, fiber.StatusOK, "Document removed", view)
}

func (h *ApplicationHandler) Next(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	view, err := h.uc.Next(c.UserContext(), id)
	if err != nil {
		stepTransitions.WithLabelValues("next", transitionOutcome(err)).Inc()
		return respondError(c, err)
	}
	stepTransitions.WithLabelValues("next", "ok").Inc()
	return h.draftResponse(c, fiber.StatusOK, "Moved to next step", view)
}

func (h *ApplicationHandler) Back(c *fiber.Ctx) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	view, err := h.uc.Back(c.UserContext(), id)
	if err != nil {
		stepTransitions.WithLabelValues("back", transitionOutcome(err)).Inc()
		return respondError(c, err)
	}
	stepTransitions.WithLabelValues("back", "ok").Inc()
	return h.draftResponse(c, fiber.StatusOK, "Moved to previous step", view)
}

func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	timer := prometheus.NewTimer(submissionDuration)
	defer timer.ObserveDuration()

	id, err := draftID(c)
	if err != nil {
		return err
	}
	res, err := h.uc.Submit(c.UserContext(), id)
	if err != nil {
		var verr *form.ValidationError
		switch {
		case errors.As(err, &verr):
			submissions.WithLabelValues("invalid").Inc()
		default:
			submissions.WithLabelValues("failed").Inc()
		}
		return respondError(c, err)
	}
	submissions.WithLabelValues("accepted").Inc()

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: usecase.SubmitSuccessMessage,
		Data: dto.SubmitResultDTO{
			Reference: res.Reference,
			Redirect:  res.Redirect,
		},
	})
}

func (h *ApplicationHandler) withDraft(c *fiber.Ctx, code int, message string, op func(ctx context.Context, id uuid.UUID) (*usecase.DraftView, error)) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	view, err := op(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return h.draftResponse(c, code, message, view)
}

func (h *ApplicationHandler) withEntry(c *fiber.Ctx, message string, op func(ctx context.Context, id uuid.UUID, index int) (*usecase.DraftView, error)) error {
	id, err := draftID(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "index must be a number")
	}
	view, err := op(c.UserContext(), id, index)
	if err != nil {
		return respondError(c, err)
	}
	return h.draftResponse(c, fiber.StatusOK, message, view)
}

func (h *ApplicationHandler) draftResponse(c *fiber.Ctx, code int, message string, view *usecase.DraftView) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       code,
		Message:    message,
		Data:       dto.NewDraftDTO(view.Draft, view.Errors),
		Navigation: navigation(view.Draft.Step),
	})
}

func draftID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid application id")
	}
	return id, nil
}

func navigation(step model.Step) *response.Navigation {
	return &response.Navigation{
		Step:       int(step),
		StepName:   step.String(),
		TotalSteps: int(model.LastStep),
		CanGoBack:  step > model.FirstStep && step.Editable(),
		CanGoNext:  step >= model.FirstStep && step < model.LastStep,
		CanSubmit:  step == model.LastStep,
	}
}

func transitionOutcome(err error) string {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		return "blocked"
	}
	return "invalid"
}
