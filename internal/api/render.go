package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/katakuxiko/promptforms/internal/forms"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/internal/service"
)

//go:embed views/*.html
var viewsFS embed.FS

var views = template.Must(template.ParseFS(viewsFS, "views/*.html"))

const apiKeyHelpURL = "https://help.openai.com/en/articles/4936850-where-do-i-find-my-secret-api-key"

// Warning is an actionable message shown instead of a result.
type Warning struct {
	Message string
	Link    string
}

type fieldView struct {
	Name        string
	Label       string
	Placeholder string
	Kind        string
	Choices     []string
	Value       string
}

type formView struct {
	ID                    string
	Title                 string
	Description           string
	ResultHeading         string
	CredentialPlaceholder string
	Multipart             bool
	Fields                []fieldView
	Output                string
	Warning               *Warning
}

func newFormView(f *forms.Form, values map[string]string) formView {
	v := formView{
		ID:                    f.ID,
		Title:                 f.Title,
		Description:           f.Description,
		ResultHeading:         f.ResultHeading,
		CredentialPlaceholder: forms.CredentialPlaceholder,
		Multipart:             f.HasFile(),
	}
	for _, fl := range f.Fields {
		fv := fieldView{
			Name:        fl.Name,
			Label:       fl.Label,
			Placeholder: fl.Placeholder,
			Kind:        fl.Kind.String(),
			Choices:     fl.Choices,
		}
		// uploads are never echoed back
		if fl.Kind != forms.FieldFile {
			fv.Value = values[fl.Name]
		}
		v.Fields = append(v.Fields, fv)
	}
	return v
}

func render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch {
	case service.IsPrecondition(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrRateLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// warningFor turns any pipeline error into guidance for the operator.
func warningFor(f *forms.Form, err error) *Warning {
	var tooLong *gate.InputTooLongError
	switch {
	case errors.Is(err, gate.ErrMissingCredential):
		return &Warning{Message: "Please insert OpenAI API Key.", Link: apiKeyHelpURL}
	case errors.Is(err, gate.ErrInvalidCredential):
		return &Warning{Message: "Enter a valid OpenAI API Key.", Link: apiKeyHelpURL}
	case errors.As(err, &tooLong):
		what := "text"
		if f.HasFile() {
			what = "file"
		}
		return &Warning{Message: fmt.Sprintf("Please enter a shorter %s. The maximum length is %d words.", what, tooLong.Limit)}
	case errors.Is(err, gate.ErrEmptyInput):
		if f.HasFile() {
			return &Warning{Message: "Please choose a text file to upload."}
		}
		return &Warning{Message: "Please enter some text."}
	case errors.Is(err, gate.ErrInvalidChoice):
		return &Warning{Message: err.Error()}
	case errors.Is(err, gate.ErrDecode):
		return &Warning{Message: "The uploaded file must be UTF-8 encoded plain text."}
	case errors.Is(err, service.ErrAuthentication):
		return &Warning{Message: "The completion service rejected the API key. Check the key and try again.", Link: apiKeyHelpURL}
	case errors.Is(err, service.ErrRateLimit):
		return &Warning{Message: "The completion service is rate limiting this key. Wait a moment and try again."}
	case errors.Is(err, service.ErrService):
		return &Warning{Message: "The completion service failed to answer. Please try again later."}
	default:
		return &Warning{Message: "Something went wrong while processing your request."}
	}
}
