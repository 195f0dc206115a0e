// Package protocol implements the CTSP/1.0 wire format.
//
// A request is a text frame:
//
//	CTSP/1.0 <COMMAND>\n
//	Player-ID: <token>\n        (optional)
//	Content-Length: <bytes>\n   (optional)
//	\n
//	<json-body>
//
// When Content-Length is present the body is read as exactly that many
// bytes, so JSON containing newlines is representable. Without it the body
// is the single line after the blank separator; an empty line means no body.
//
// A response mirrors the framing with a status line ("CTSP/1.0 200 OK") and
// always carries Content-Length and a JSON body (null when there is none).
package protocol
