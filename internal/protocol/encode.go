package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode serializes the response. The body is always present on the wire
// (null when nil) so clients consume a fixed frame shape.
func (resp *Response) Encode() ([]byte, error) {
	payload, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal response body: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d %s\n", Proto, resp.Status, resp.Status.Reason())
	if resp.Token != "" {
		fmt.Fprintf(&buf, "Player-ID: %s\n", resp.Token)
	}
	fmt.Fprintf(&buf, "Content-Length: %d\n", len(payload))
	buf.WriteByte('\n')
	buf.Write(payload)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// EncodeRequest builds the wire form of one client request. A nil body is
// sent as an empty, zero-length payload.
func EncodeRequest(command, token string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s\n", Proto, command)
	if token != "" {
		fmt.Fprintf(&buf, "Player-ID: %s\n", token)
	}
	fmt.Fprintf(&buf, "Content-Length: %d\n", len(payload))
	buf.WriteByte('\n')
	buf.Write(payload)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
