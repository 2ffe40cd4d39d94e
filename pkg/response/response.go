package response

import (
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func init() {
	// money goes out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

const genericFailure = "Something went wrong on our side. Please contact support with the incident reference."

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	// IncidentID is set only for internal failures.
	IncidentID any `json:"incidentId,omitempty"`
}

// OK writes {success:true,data:...}.
func OK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// Fail writes {success:false,error:{...}} with the status derived from err.
// Internal failures keep their details in the log only.
func Fail(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	body := ErrorBody{Code: apperr.CodePersistence, Message: genericFailure}

	e, ok := apperr.As(err)
	switch {
	case ok && apperr.Internal(err):
		body.Code = e.Code
		if id, found := e.Meta["incidentId"]; found {
			body.IncidentID = id
		}
		logger.Error("%s %s failed", err, c.Method(), c.Path())
	case ok:
		body.Code = e.Code
		body.Message = e.Message
		body.Details = e.Meta
	default:
		logger.Error("%s %s failed", err, c.Method(), c.Path())
	}

	return c.Status(status).JSON(fiber.Map{"success": false, "error": body})
}

// BadRequest reports a request body that could not be parsed.
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, apperr.Validation(apperr.CodeInvalidInput, "%s", message))
}
