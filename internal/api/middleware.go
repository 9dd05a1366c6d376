package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the current response envelope schema version.
// Clients use it to detect incompatible envelope changes.
const EnvelopeVersion = 1

// ErrorBody is the error portion of a response envelope.
type ErrorBody struct {
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Envelope wraps every API response in a consistent structure.
type Envelope struct {
	V       int        `json:"v" doc:"Envelope schema version"`
	Success bool       `json:"success" doc:"Whether the request succeeded"`
	Data    any        `json:"data,omitempty" doc:"Response payload on success"`
	Error   *ErrorBody `json:"error,omitempty" doc:"Error details on failure"`
}

// EnvelopeTransformer wraps all responses in the standard envelope.
// Registered as a huma transformer so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code >= 400 {
		body := &ErrorBody{Code: statusToCode(code)}

		switch e := v.(type) {
		case *APIError:
			body.Code = e.Code
			body.Message = e.Message
			body.Details = e.Details
		case error:
			body.Message = e.Error()
		default:
			body.Message = status
		}

		return &Envelope{V: EnvelopeVersion, Success: false, Error: body}, nil
	}

	return &Envelope{V: EnvelopeVersion, Success: true, Data: v}, nil
}
