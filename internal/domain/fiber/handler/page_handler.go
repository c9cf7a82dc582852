package handler

import (
	"strings"

	"github.com/fadilmartias/jobapply/internal/form"
	"github.com/fadilmartias/jobapply/internal/util"
	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the static views around the form: landing, confirmation,
// option lists and the location cascade.
type PageHandler struct {
	baseURL string
}

func NewPageHandler(baseURL string) *PageHandler {
	return &PageHandler{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (h *PageHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Hiring)
	app.Get("/thankyou", h.ThankYou)
	app.Get("/options", h.Options)
	app.Get("/locations", h.Countries)
	app.Get("/locations/:country", h.States)
	app.Get("/locations/:country/:state", h.Cities)
}

func (h *PageHandler) Hiring(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Join our team",
		Data: fiber.Map{
			"title":     "We're hiring",
			"apply_url": h.baseURL + "/applications",
			"steps":     []string{"Personal information", "Referral information", "Career information"},
		},
	})
}

func (h *PageHandler) ThankYou(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Thank You!",
		Data: fiber.Map{
			"title":    "Thank You!",
			"subtitle": "Your submission has been received.",
		},
	})
}

func (h *PageHandler) Options(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get options",
		Data:    form.AllOptions(),
	})
}

func (h *PageHandler) Countries(c *fiber.Ctx) error {
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get countries",
		Data:    form.Countries(),
	})
}

func (h *PageHandler) States(c *fiber.Ctx) error {
	states, ok := form.States(c.Params("country"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown country")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get states",
		Data:    states,
	})
}

func (h *PageHandler) Cities(c *fiber.Ctx) error {
	cities, ok := form.Cities(c.Params("country"), c.Params("state"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown state")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get cities",
		Data:    cities,
	})
}
