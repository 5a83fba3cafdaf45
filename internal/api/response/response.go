// Package response renders API results and failures into HTTP responses with a
// fixed header set and a sparse JSON body.
//
// Error bodies have the shape {"error": <name>, "message"?: ..., "details"?: ...}.
// Success bodies spread the data object's fields at the top level and add an
// optional "message". Empty values are omitted rather than serialized.
//
// In production mode (or when detail suppression is enabled) details are
// dropped from every error body and messages of 5xx responses are replaced with
// GenericServerMessage. Messages of 4xx responses are kept as given.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/pkg/apperrors"
)

// GenericServerMessage replaces 5xx messages when redaction is active.
const GenericServerMessage = "An internal server error occurred"

// UnknownErrorName labels status codes missing from the name table.
const UnknownErrorName = "Unknown Error"

var statusNames = map[int]string{
	http.StatusOK:                  "OK",
	http.StatusCreated:             "Created",
	http.StatusNoContent:           "No Content",
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Unprocessable Entity",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusBadGateway:          "Bad Gateway",
	http.StatusServiceUnavailable:  "Service Unavailable",
	http.StatusGatewayTimeout:      "Gateway Timeout",
}

// StatusName returns the error label for code.
func StatusName(code int) string {
	if name, ok := statusNames[code]; ok {
		return name
	}
	return UnknownErrorName
}

// Response is a fully rendered HTTP response.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Formatter renders responses. It is safe for concurrent use.
type Formatter struct {
	redact  bool
	headers map[string]string
}

// New builds a Formatter. The header set is computed once and shared by
// every response.
func New(cfg config.ResponseConfig) *Formatter {
	return &Formatter{
		redact: cfg.Production || cfg.SuppressDetails,
		headers: map[string]string{
			fiber.HeaderContentType:               fiber.MIMEApplicationJSON,
			fiber.HeaderAccessControlAllowOrigin:  cfg.CORSOrigin(),
			fiber.HeaderAccessControlAllowMethods: "GET, POST, OPTIONS",
			fiber.HeaderAccessControlAllowHeaders: "Content-Type, Authorization",
			fiber.HeaderXContentTypeOptions:       "nosniff",
			fiber.HeaderXFrameOptions:             "DENY",
			fiber.HeaderStrictTransportSecurity:   "max-age=31536000; includeSubDomains",
			fiber.HeaderContentSecurityPolicy:     "default-src 'self'",
			fiber.HeaderReferrerPolicy:            "strict-origin-when-cross-origin",
		},
	}
}

// Headers returns a copy of the fixed header set.
func (f *Formatter) Headers() map[string]string {
	out := make(map[string]string, len(f.headers))
	for k, v := range f.headers {
		out[k] = v
	}
	return out
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error renders an error response. details may be a []string or a
// string-keyed map; anything else, and any empty value, is omitted.
func (f *Formatter) Error(status int, message string, details any) Response {
	body := errorBody{Error: StatusName(status), Message: message}
	if f.redact {
		if status >= http.StatusInternalServerError {
			body.Message = GenericServerMessage
		}
	} else {
		body.Details = normalizeDetails(details)
	}
	return f.render(status, body)
}

// Success renders a success response. Object data has its fields spread at the
// top level; other JSON values are placed under "data".
func (f *Formatter) Success(status int, data any, message string) Response {
	if status == http.StatusNoContent {
		return Response{StatusCode: status, Headers: f.Headers()}
	}

	body := map[string]json.RawMessage{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return f.Error(http.StatusInternalServerError, "failed to encode response", nil)
		}
		fields := map[string]json.RawMessage{}
		switch {
		case string(raw) == "null":
		case json.Unmarshal(raw, &fields) == nil:
			body = fields
		default:
			body["data"] = raw
		}
	}
	if message != "" {
		encoded, _ := json.Marshal(message)
		body["message"] = encoded
	}
	return f.render(status, body)
}

// FromError renders err using the status of its taxonomy kind. Errors outside
// the taxonomy, including fiber errors, keep their own status or become 500.
func (f *Formatter) FromError(err error) Response {
	if err == nil {
		return f.Error(http.StatusInternalServerError, "", nil)
	}
	if appErr, ok := apperrors.As(err); ok {
		var details any
		switch appErr.Kind {
		case apperrors.KindValidation:
			details = appErr.Violations
		case apperrors.KindNotFound:
			details = map[string]any{"id": appErr.ID}
		}
		message := appErr.Message
		if appErr.Kind == apperrors.KindDatabase {
			message = appErr.Error()
		}
		return f.Error(appErr.HTTPStatus(), message, details)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return f.Error(fiberErr.Code, fiberErr.Message, nil)
	}
	return f.Error(http.StatusInternalServerError, err.Error(), nil)
}

func (f *Formatter) render(status int, body any) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		encoded = []byte(`{"error":"` + StatusName(http.StatusInternalServerError) + `"}`)
		status = http.StatusInternalServerError
	}
	return Response{StatusCode: status, Headers: f.Headers(), Body: encoded}
}

func normalizeDetails(details any) any {
	switch d := details.(type) {
	case []string:
		if len(d) > 0 {
			return d
		}
	case map[string]any:
		if len(d) > 0 {
			return d
		}
	case map[string]string:
		if len(d) > 0 {
			return d
		}
	}
	return nil
}

// Send writes r to the fiber context.
func Send(c *fiber.Ctx, r Response) error {
	for k, v := range r.Headers {
		c.Set(k, v)
	}
	c.Status(r.StatusCode)
	if len(r.Body) == 0 {
		return nil
	}
	return c.Send(r.Body)
}
