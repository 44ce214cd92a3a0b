package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/katakuxiko/promptforms/internal/forms"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/model"
	"github.com/katakuxiko/promptforms/internal/service"
	"github.com/katakuxiko/promptforms/internal/textsplit"
	"github.com/katakuxiko/promptforms/pkg/logging"
)

// ModelLister lists the models a credential can use.
type ModelLister interface {
	ListModels(ctx context.Context, cred *gate.Credential) ([]string, error)
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	runner           *service.Runner
	models           ModelLister
	credentialPrefix string
	log              *logging.Logger
}

func NewHandler(runner *service.Runner, models ModelLister, credentialPrefix string, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{runner: runner, models: models, credentialPrefix: credentialPrefix, log: log}
}

// Health is a liveness probe.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Index lists the forms.
func (h *Handler) Index(c *fiber.Ctx) error {
	return render(c, http.StatusOK, "index", fiber.Map{
		"Title": "Prompt forms",
		"Forms": forms.All(),
	})
}

// ShowForm renders an empty form.
func (h *Handler) ShowForm(c *fiber.Ctx) error {
	f, ok := forms.Lookup(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}
	return render(c, http.StatusOK, "form", newFormView(f, nil))
}

// SubmitForm handles a browser submission and renders the result or a
// warning on the same page.
func (h *Handler) SubmitForm(c *fiber.Ctx) error {
	f, ok := forms.Lookup(c.Params("id"))
	if !ok {
		return fiber.ErrNotFound
	}

	values, err := formValues(c, f)
	view := newFormView(f, values)
	if err != nil {
		view.Warning = warningFor(f, err)
		return render(c, statusFor(err), "form", view)
	}

	res, err := h.runner.Run(c.UserContext(), f, service.Submission{
		Values:     values,
		Credential: gate.NewCredential(c.FormValue("credential")),
	})
	if err != nil {
		view.Warning = warningFor(f, err)
		return render(c, statusFor(err), "form", view)
	}
	view.Output = res.Output
	return render(c, http.StatusOK, "form", view)
}

// SubmitAPI is the JSON flavour of SubmitForm. File forms take the file
// contents as a plain string field.
func (h *Handler) SubmitAPI(c *fiber.Ctx) error {
	f, ok := forms.Lookup(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(model.ErrorResponse{Error: "unknown form", Code: "not_found"})
	}

	var req model.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.ErrorResponse{
			Error: `invalid request, expected JSON: {"credential":"...","fields":{...}}`,
			Code:  "bad_request",
		})
	}
	values := req.Fields
	if values == nil {
		values = map[string]string{}
	}
	if f.HasFile() {
		values[f.InputField] = textsplit.NormalizeNewlines(values[f.InputField])
	}

	res, err := h.runner.Run(c.UserContext(), f, service.Submission{
		Values:     values,
		Credential: gate.NewCredential(req.Credential),
	})
	if err != nil {
		return c.Status(statusFor(err)).JSON(model.ErrorResponse{
			Error: warningFor(f, err).Message,
			Code:  service.Code(err),
		})
	}

	return c.JSON(model.SubmitResponse{Form: f.ID, Output: res.Output, Chunks: res.Chunks})
}

// ListModels proxies the model list of the completion endpoint for the
// supplied credential.
func (h *Handler) ListModels(c *fiber.Ctx) error {
	var req model.ModelsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.ErrorResponse{Error: `invalid request, expected JSON: {"credential":"..."}`, Code: "bad_request"})
	}
	cred := gate.NewCredential(req.Credential)
	defer cred.Wipe()

	if err := gate.CheckCredential(cred, gate.Limits{CredentialPrefix: h.credentialPrefix}); err != nil {
		return c.Status(statusFor(err)).JSON(model.ErrorResponse{Error: err.Error(), Code: service.Code(err)})
	}

	ids, err := h.models.ListModels(c.UserContext(), cred)
	if err != nil {
		h.log.Warn("list models failed", "error", err)
		return c.Status(statusFor(err)).JSON(model.ErrorResponse{Error: err.Error(), Code: service.Code(err)})
	}
	return c.JSON(fiber.Map{"models": ids})
}

// formValues collects the declared fields of f from a urlencoded or
// multipart body. Uploads must decode as UTF-8.
func formValues(c *fiber.Ctx, f *forms.Form) (map[string]string, error) {
	values := make(map[string]string, len(f.Fields))
	for _, fl := range f.Fields {
		if fl.Kind != forms.FieldFile {
			values[fl.Name] = c.FormValue(fl.Name)
			continue
		}
		text, err := readUpload(c, fl.Name)
		if err != nil {
			return values, err
		}
		values[fl.Name] = text
	}
	return values, nil
}

func readUpload(c *fiber.Ctx, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// no file chosen; the gate reports it as empty input
		return "", nil
	}
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	text, err := gate.DecodeUTF8(b)
	if err != nil {
		return "", err
	}
	return textsplit.NormalizeNewlines(text), nil
}

// errorHandler renders fiber errors (404, 413 and friends) as JSON for the
// API routes and as plain text elsewhere.
func errorHandler(log *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		} else {
			log.Error("request failed", "path", c.Path(), "error", err)
		}
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(code).JSON(model.ErrorResponse{Error: http.StatusText(code), Code: "http_error"})
		}
		return c.Status(code).SendString(http.StatusText(code))
	}
}
