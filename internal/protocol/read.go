package protocol

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// ReadRequest reads and parses one request frame. A clean disconnect before
// any bytes arrive surfaces as io.EOF; a truncated frame as
// io.ErrUnexpectedEOF. Parse failures return a *ProtocolError.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, headers, body, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrBadRequestLine
	}
	if fields[0] != Proto {
		return nil, ErrUnsupportedProtocol
	}

	command := ""
	if len(fields) > 1 {
		command = fields[1]
	}

	return &Request{
		Command:  command,
		PlayerID: headers["player-id"],
		Body:     body,
	}, nil
}

// ReadResponse reads and parses one response frame, client-side.
func ReadResponse(r *bufio.Reader) (*ParsedResponse, error) {
	line, headers, body, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 2 || fields[0] != Proto {
		return nil, ErrBadStatusLine
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, ErrBadStatusLine
	}
	reason := ""
	if len(fields) == 3 {
		reason = fields[2]
	}

	return &ParsedResponse{
		Status: Status(code),
		Reason: reason,
		Token:  headers["player-id"],
		Body:   body,
	}, nil
}

// ErrBadStatusLine indicates a response status line that could not be parsed.
var ErrBadStatusLine = &ProtocolError{"missing or malformed status line"}

// readFrame reads one frame: first line, headers until the blank separator,
// then the body (Content-Length bytes when declared, one line otherwise).
func readFrame(r *bufio.Reader) (string, map[string]string, json.RawMessage, error) {
	first, err := readLine(r)
	if err != nil {
		return "", nil, nil, err
	}

	headers := make(map[string]string)
	for {
		h, err := readLine(r)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", nil, nil, err
		}
		if h == "" {
			break
		}
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			// Lines without a colon are not headers; skip them.
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	var raw string
	if cl, ok := headers["content-length"]; ok {
		n, err := strconv.Atoi(cl)
		if err != nil || n < 0 || n > MaxBodyBytes {
			return "", nil, nil, ErrBadContentLength
		}
		if n > 0 {
			buf := make([]byte, n)
			if _, err := io.ReadFull(r, buf); err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return "", nil, nil, err
			}
			raw = string(buf)
		}
		consumeNewline(r)
	} else {
		b, err := readLine(r)
		if err != nil && err != io.EOF {
			return "", nil, nil, err
		}
		raw = b
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return first, headers, nil, nil
	}
	if !json.Valid([]byte(raw)) {
		return "", nil, nil, ErrMalformedBody
	}
	return first, headers, json.RawMessage(raw), nil
}

// readLine reads up to the next newline, trimming the line terminator. A
// final unterminated line is returned without error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// consumeNewline eats the optional line terminator after a length-framed body
// so the next frame starts on a line boundary.
func consumeNewline(r *bufio.Reader) {
	for _, c := range []byte{'\r', '\n'} {
		if b, err := r.Peek(1); err == nil && b[0] == c {
			_, _ = r.ReadByte()
		}
	}
}
