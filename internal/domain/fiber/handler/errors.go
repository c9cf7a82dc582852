package handler

import (
	"errors"
	"log"

	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/fadilmartias/jobapply/internal/repository"
	"github.com/fadilmartias/jobapply/internal/service"
	"github.com/fadilmartias/jobapply/internal/usecase"
	"github.com/fadilmartias/jobapply/internal/util"
	"github.com/gofiber/fiber/v2"
)

const fixFieldsMessage = "Please fix the highlighted fields"

// ErrorHandler renders errors that escape a handler, including Fiber's own.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" || code == fiber.StatusInternalServerError {
		message = "Internal Server Error"
	}
	if code == fiber.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	}

	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: message,
	}, err)
}

// respondError maps domain errors onto status codes and envelopes.
func respondError(c *fiber.Ctx, err error) error {
	var (
		fiberErr *fiber.Error
		verr     *form.ValidationError
		rejected *usecase.RejectedDocumentError
		serr     *service.SubmissionError
	)
	switch {
	case errors.As(err, &fiberErr):
		return err
	case errors.Is(err, repository.ErrDraftNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "Application not found or expired",
		}, err)
	case errors.As(err, &verr):
		return util.FormErrorResponse(c, fiber.StatusUnprocessableEntity, util.NewFormError(fixFieldsMessage, verr.Errors))
	case errors.As(err, &rejected):
		code := fiber.StatusUnprocessableEntity
		if errors.Is(err, service.ErrDocumentTooLarge) {
			code = fiber.StatusRequestEntityTooLarge
		}
		return util.FormErrorResponse(c, code, util.NewFormError(fixFieldsMessage, rejected.FieldErrors()))
	case errors.Is(err, form.ErrInvalidTransition), errors.Is(err, model.ErrLastEntry):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: err.Error(),
		}, err)
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrInvalidValue), errors.Is(err, model.ErrIndexOutOfRange):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: err.Error(),
		}, err)
	case errors.As(err, &serr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadGateway,
			Message: usecase.SubmitFailedMessage,
		}, err)
	}

	log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusInternalServerError,
		Message: "Something went wrong, please try again",
	}, err)
}
