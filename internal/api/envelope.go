package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version clients pin against.
const envelopeVersion = 1

// successEnvelope wraps successful response bodies.
type successEnvelope struct {
	V       int  `json:"v" doc:"Envelope format version"`
	Success bool `json:"success" doc:"Always true for successful responses"`
	Data    any  `json:"data,omitempty" doc:"Response payload"`
}

// errorEnvelope wraps simple error responses that carry only a message.
type errorEnvelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Error   string `json:"error" doc:"Error message"`
}

// detailedErrorEnvelope wraps error responses with a machine-readable code.
type detailedErrorEnvelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope
// the clients expect. Registered as a huma transformer so handlers return
// plain payloads and never see the envelope.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" {
			return &errorEnvelope{
				V:     envelopeVersion,
				Error: apiErr.Message,
			}, nil
		}
		return &detailedErrorEnvelope{
			V:       envelopeVersion,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
