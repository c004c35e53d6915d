package hound

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// HoundServer is the top-level JSON envelope returned by the service. Only the
// fields the SDK inspects are typed; the rest stay in the raw body.
type HoundServer struct {
	Status       string          `json:"Status,omitempty"`
	ErrorMessage *string         `json:"ErrorMessage,omitempty"`
	NumToReturn  int             `json:"NumToReturn,omitempty"`
	AllResults   []CommandResult `json:"AllResults,omitempty"`
}

// CommandResult is one interpretation of the query.
type CommandResult struct {
	CommandKind           string          `json:"CommandKind,omitempty"`
	SpokenResponse        string          `json:"SpokenResponse,omitempty"`
	SpokenResponseLong    string          `json:"SpokenResponseLong,omitempty"`
	WrittenResponse       string          `json:"WrittenResponse,omitempty"`
	WrittenResponseLong   string          `json:"WrittenResponseLong,omitempty"`
	ConversationState     json.RawMessage `json:"ConversationState,omitempty"`
	ConversationStateTime *int64          `json:"ConversationStateTime,omitempty"`
	NativeData            *NativeData     `json:"NativeData,omitempty"`
}

type NativeData struct {
	LongResult string `json:"LongResult,omitempty"`
}

// Response is the outcome of one call. Server is nil when the body was not a
// JSON object; Body always holds the raw bytes.
//
// Server is a best-effort typed view: fields whose JSON type does not match
// are left zero. Error detection and ConversationState extraction read the
// raw object instead, so an off-type field never hides them.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Server     *HoundServer

	fields map[string]json.RawMessage
}

// Parsed reports whether the body decoded as a JSON object.
func (r *Response) Parsed() bool {
	return r.fields != nil
}

// Results returns the result list, empty when the body was not parsed.
func (r *Response) Results() []CommandResult {
	if r.Server == nil {
		return nil
	}
	return r.Server.AllResults
}

// LongResults collects NativeData.LongResult from every result that has one.
func (r *Response) LongResults() []string {
	var out []string
	for _, res := range r.Results() {
		if res.NativeData != nil && res.NativeData.LongResult != "" {
			out = append(out, res.NativeData.LongResult)
		}
	}
	return out
}

// JSON decodes the raw body into a generic value, e.g. for jq filtering.
func (r *Response) JSON() (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// errorMessage reports whether the envelope has an ErrorMessage key. String
// values are returned as-is, anything else as its JSON text.
func (r *Response) errorMessage() (string, bool) {
	raw, ok := r.fields["ErrorMessage"]
	if !ok {
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return string(bytes.TrimSpace(raw)), true
}

// conversationState extracts the first result's ConversationState. ok is
// false when there are no results or the field is absent, null or not a JSON
// object.
func (r *Response) conversationState() (json.RawMessage, bool) {
	var results []json.RawMessage
	if err := json.Unmarshal(r.fields["AllResults"], &results); err != nil || len(results) == 0 {
		return nil, false
	}
	var first map[string]json.RawMessage
	if err := json.Unmarshal(results[0], &first); err != nil {
		return nil, false
	}
	raw := bytes.TrimSpace(first["ConversationState"])
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// parseEnvelope decodes body as a JSON object. The typed view is filled as
// far as the field types allow; type mismatches do not fail the parse.
func parseEnvelope(body []byte) (map[string]json.RawMessage, *HoundServer) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, nil
	}

	var server HoundServer
	// encoding/json keeps decoding past an UnmarshalTypeError
	_ = json.Unmarshal(body, &server)
	return fields, &server
}
