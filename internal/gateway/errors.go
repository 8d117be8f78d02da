package gateway

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrNoCredential is returned when no bearer token is available. It
// short-circuits before any request is sent.
var ErrNoCredential = errors.New("not authenticated")

// genericMessage stands in whenever the gateway produced nothing displayable.
const genericMessage = "Something went wrong. Please try again."

// NetworkError wraps a transport-level failure: the request never produced
// an HTTP response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RemoteError is a non-2xx gateway response with the human-readable message
// parsed from its body, or a generic fallback when the body carries none.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gateway: %d: %s", e.Status, e.Message)
}

// UserMessage returns the server's message, suitable for direct display.
func (e *RemoteError) UserMessage() string {
	return e.Message
}

// DecodeError is a 2xx response whose body could not be decoded, such as a
// truncated or malformed payload.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage returns a generic displayable message; a garbled success body
// carries nothing worth surfacing verbatim.
func (e *DecodeError) UserMessage() string {
	return genericMessage
}

// remoteMessage extracts a human-readable message from an error body. The
// shape is not guaranteed, so the body is scanned tolerantly for the usual
// message-bearing keys; anything unparseable yields "".
func remoteMessage(data []byte) string {
	d := jx.DecodeBytes(data)
	var msg string
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "error", "detail", "message":
			s, err := d.Str()
			if err != nil {
				return err
			}
			if msg == "" {
				msg = s
			}
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return ""
	}
	return msg
}
