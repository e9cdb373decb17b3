package ajax

import (
	"encoding/json"
	"strings"
)

// envelope is the JSON shape the server wraps application-level errors in. It
// arrives with HTTP 200; data carries the human-readable message.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

// ErrorMessage extracts the message from a structured error body. The second
// return is false when the body is not a parseable envelope.
func ErrorMessage(body string) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(body))
	var env envelope
	if err := dec.Decode(&env); err != nil || len(env.Data) == 0 {
		return "", false
	}

	// data is usually a bare string, but some handlers return an object with
	// a msg field.
	var msg string
	if err := json.Unmarshal(env.Data, &msg); err == nil {
		return msg, true
	}

	var obj struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Data, &obj); err == nil && obj.Msg != "" {
		return obj.Msg, true
	}

	return "", false
}
