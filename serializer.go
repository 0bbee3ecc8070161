package soundcloudclient

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	json "github.com/eznix86/soundcloud-client/jsoncompat"
)

var (
	// ErrParse is returned when a response body is not valid JSON.
	ErrParse = errors.New("response body is not valid JSON")
	// ErrUnacceptableContentType is returned when the response declares a content type the serializer does not accept.
	ErrUnacceptableContentType = errors.New("unacceptable content type")
	// ErrUnacceptableStatusCode is returned when the response status is outside the accepted set.
	ErrUnacceptableStatusCode = errors.New("unacceptable status code")
)

var defaultAcceptableContentTypes = []string{
	"application/json",
	"text/json",
	"text/javascript",
}

// ResponseSerializer turns a raw response body into a decoded value.
type ResponseSerializer interface {
	Serialize(data []byte, resp *http.Response) (any, error)
}

// ParseError reports a body that could not be parsed. Data holds the offending body.
type ParseError struct {
	Data []byte
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// UnacceptableContentTypeError reports a response whose Content-Type is not accepted.
type UnacceptableContentTypeError struct {
	ContentType string
	StatusCode  int
	URL         string
	Data        []byte
}

func (e *UnacceptableContentTypeError) Error() string {
	return fmt.Sprintf("request failed: %s: %q (status %d, url %s)", ErrUnacceptableContentType, e.ContentType, e.StatusCode, e.URL)
}

func (e *UnacceptableContentTypeError) Unwrap() error {
	return ErrUnacceptableContentType
}

// UnacceptableStatusError reports a response whose status code is not accepted.
type UnacceptableStatusError struct {
	StatusCode int
	Status     string
	URL        string
	Data       []byte
}

func (e *UnacceptableStatusError) Error() string {
	return fmt.Sprintf("request failed: %s - %s", e.Status, string(e.Data))
}

func (e *UnacceptableStatusError) Unwrap() error {
	return ErrUnacceptableStatusCode
}

// JSONResponseSerializer validates a response and parses its body as JSON.
// Numbers are preserved as json.Number under the default encoding/json layer.
// Built with GOEXPERIMENT=jsonv2 they decode as float64, so integers above 2^53
// lose precision (see jsoncompat.PreservesNumbers). It is safe for concurrent use.
type JSONResponseSerializer struct {
	acceptableContentTypes    map[string]struct{}
	acceptableStatus          func(code int) bool // nil accepts 2xx
	removesKeysWithNullValues bool
}

// JSONOption configures a JSONResponseSerializer.
type JSONOption func(*JSONResponseSerializer)

// WithAcceptableContentTypes replaces the accepted media types.
func WithAcceptableContentTypes(types ...string) JSONOption {
	return func(s *JSONResponseSerializer) {
		s.acceptableContentTypes = make(map[string]struct{}, len(types))
		for _, t := range types {
			s.acceptableContentTypes[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
	}
}

// WithAcceptableStatusCodes replaces the accepted status codes.
func WithAcceptableStatusCodes(codes ...int) JSONOption {
	return func(s *JSONResponseSerializer) {
		set := make(map[int]struct{}, len(codes))
		for _, c := range codes {
			set[c] = struct{}{}
		}
		s.acceptableStatus = func(code int) bool {
			_, ok := set[code]
			return ok
		}
	}
}

// WithRemovesKeysWithNullValues drops object entries whose value is null.
func WithRemovesKeysWithNullValues() JSONOption {
	return func(s *JSONResponseSerializer) {
		s.removesKeysWithNullValues = true
	}
}

// NewJSONResponseSerializer creates a serializer accepting JSON content types and 2xx statuses.
func NewJSONResponseSerializer(opts ...JSONOption) *JSONResponseSerializer {
	s := &JSONResponseSerializer{}
	WithAcceptableContentTypes(defaultAcceptableContentTypes...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize validates resp and parses data. A nil resp skips validation.
// An empty body, or one consisting of a single space, decodes to nil.
func (s *JSONResponseSerializer) Serialize(data []byte, resp *http.Response) (any, error) {
	if err := s.validate(data, resp); err != nil {
		return nil, err
	}

	if isEmptyBody(data) {
		return nil, nil
	}

	if !json.Valid(data) {
		var discard any
		err := json.Unmarshal(data, &discard)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &ParseError{Data: data, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParseError{Data: data, Err: err}
	}

	if s.removesKeysWithNullValues {
		v = removeNullValues(v)
	}
	return v, nil
}

func (s *JSONResponseSerializer) validate(data []byte, resp *http.Response) error {
	if resp == nil {
		return nil
	}

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	if !s.statusAcceptable(resp.StatusCode) {
		return &UnacceptableStatusError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			URL:        url,
			Data:       data,
		}
	}

	if len(data) == 0 {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !s.contentTypeAcceptable(contentType) {
		return &UnacceptableContentTypeError{
			ContentType: contentType,
			StatusCode:  resp.StatusCode,
			URL:         url,
			Data:        data,
		}
	}
	return nil
}

func (s *JSONResponseSerializer) statusAcceptable(code int) bool {
	if s.acceptableStatus == nil {
		return code >= 200 && code < 300
	}
	return s.acceptableStatus(code)
}

// contentTypeAcceptable compares the media type only, ignoring parameters such as charset.
func (s *JSONResponseSerializer) contentTypeAcceptable(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := s.acceptableContentTypes[strings.ToLower(mediaType)]
	return ok
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func isEmptyBody(data []byte) bool {
	return len(data) == 0 || (len(data) == 1 && data[0] == ' ')
}

func removeNullValues(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			if item == nil {
				continue
			}
			out[k] = removeNullValues(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = removeNullValues(item)
		}
		return out
	default:
		return v
	}
}

var _ ResponseSerializer = (*JSONResponseSerializer)(nil)
