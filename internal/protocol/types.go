package protocol

import "encoding/json"

// Proto is the protocol identifier carried on every request and status line.
const Proto = "CTSP/1.0"

// MaxBodyBytes caps the declared Content-Length of a request body.
const MaxBodyBytes = 1 << 16

// Status is a CTSP response status code.
type Status int

const (
	StatusOK           Status = 200
	StatusBadRequest   Status = 400
	StatusUnauthorized Status = 401
)

// Reason returns the reason phrase for the status line.
func (s Status) Reason() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusUnauthorized:
		return "Unauthorized"
	default:
		return "Unknown"
	}
}

// Request is one parsed client request.
type Request struct {
	// Command is the second token of the request line, upper-case by
	// convention. Empty when the request line carried no command; the
	// dispatcher rejects it, not the parser.
	Command string

	// PlayerID is the raw session token from the Player-ID header, or "".
	PlayerID string

	// Body is the JSON payload, nil when the body line was empty.
	Body json.RawMessage
}

// Response is one server response ready for encoding.
type Response struct {
	Status Status
	// Token is echoed as the Player-ID header when non-empty.
	Token string
	// Body is JSON-serialized as-is; nil encodes as null.
	Body any
}

// ParsedResponse is a decoded server response, as seen by a client.
type ParsedResponse struct {
	Status Status
	Reason string
	Token  string
	Body   json.RawMessage
}

// ProtocolError describes a request that could not be parsed. The connection
// handler answers it with a 400 response and keeps the connection open.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string { return e.msg }

var (
	// ErrBadRequestLine indicates a missing or empty request line.
	ErrBadRequestLine = &ProtocolError{"missing or malformed request line"}

	// ErrUnsupportedProtocol indicates a request line not starting with CTSP/1.0.
	ErrUnsupportedProtocol = &ProtocolError{"unsupported protocol"}

	// ErrMalformedBody indicates a non-empty body that is not valid JSON.
	ErrMalformedBody = &ProtocolError{"malformed request body"}

	// ErrBadContentLength indicates an unparsable or out-of-range Content-Length.
	ErrBadContentLength = &ProtocolError{"invalid content-length"}
)
