package soundcloudclient

import (
	"fmt"
	"net/http"

	json "github.com/eznix86/soundcloud-client/jsoncompat"
)

// MappedJSONResponseSerializer renames response keys through a PathMapping
// after the base serializer has validated and parsed the body.
type MappedJSONResponseSerializer struct {
	base    ResponseSerializer
	mapping PathMapping
}

// MappedOption configures a MappedJSONResponseSerializer.
type MappedOption func(*MappedJSONResponseSerializer)

// WithBase replaces the serializer that validates and parses bodies.
func WithBase(base ResponseSerializer) MappedOption {
	return func(s *MappedJSONResponseSerializer) {
		if base != nil {
			s.base = base
		}
	}
}

// NewMappedJSONResponseSerializer creates a serializer applying mapping on top of a default JSONResponseSerializer.
func NewMappedJSONResponseSerializer(mapping PathMapping, opts ...MappedOption) *MappedJSONResponseSerializer {
	s := &MappedJSONResponseSerializer{
		base:    NewJSONResponseSerializer(),
		mapping: mapping,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mapping returns the configured path mapping.
func (s *MappedJSONResponseSerializer) Mapping() PathMapping {
	return s.mapping
}

// Serialize parses data with the base serializer and renames mapped keys.
// Errors from the base serializer are returned unchanged.
func (s *MappedJSONResponseSerializer) Serialize(data []byte, resp *http.Response) (any, error) {
	v, err := s.base.Serialize(data, resp)
	if err != nil {
		return nil, err
	}
	return s.mapping.Apply(v), nil
}

// SerializeInto serializes data and decodes the mapped value into v.
// A nil value (empty body) leaves v untouched.
func (s *MappedJSONResponseSerializer) SerializeInto(data []byte, resp *http.Response, v any) error {
	mapped, err := s.Serialize(data, resp)
	if err != nil {
		return err
	}
	if mapped == nil {
		return nil
	}

	b, err := json.Marshal(mapped)
	if err != nil {
		return fmt.Errorf("encode mapped response: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode mapped response: %w", err)
	}
	return nil
}

var _ ResponseSerializer = (*MappedJSONResponseSerializer)(nil)
