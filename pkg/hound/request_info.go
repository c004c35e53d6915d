package hound

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
)

// RequestInfo is the optional metadata bundle sent with every query in the
// Hound-Request-Info header.
type RequestInfo map[string]interface{}

// Kind is the JSON value kind a field accepts.
type Kind int

const (
	KindAny Kind = iota
	KindInteger
	KindNumber
	KindString
	KindBoolean
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "any"
	}
}

// Predicate reports whether an already kind-checked value is acceptable.
type Predicate func(v interface{}) bool

// FieldSpec describes one RequestInfo field.
type FieldSpec struct {
	Name     string
	Kind     Kind
	Valid    Predicate
	Optional bool
	// Default documents what the service assumes when the field is omitted.
	// The validator never injects it.
	Default     interface{}
	Description string

	// Range and set bounds, kept alongside Valid for schema export.
	Min     *float64
	Max     *float64
	Allowed []string
}

// ValidateRequestInfo checks every supplied key against the field table.
// Unknown keys, kind mismatches and failed predicates are rejected; absent
// fields are left absent. info is returned unchanged.
func ValidateRequestInfo(info RequestInfo) (RequestInfo, error) {
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := info[key]
		spec, ok := requestInfoFields[key]
		if !ok {
			return nil, &ValidationError{Field: key, Value: val, Reason: "unknown field"}
		}
		if !matchesKind(val, spec.Kind) {
			return nil, &ValidationError{
				Field:  key,
				Value:  val,
				Reason: fmt.Sprintf("expected %s, got %T", spec.Kind, val),
			}
		}
		if spec.Valid != nil && !spec.Valid(val) {
			return nil, &ValidationError{
				Field:  key,
				Value:  val,
				Reason: fmt.Sprintf("value %v out of range", val),
			}
		}
	}
	return info, nil
}

// LookupField returns the spec for a field name.
func LookupField(name string) (FieldSpec, bool) {
	spec, ok := requestInfoFields[name]
	return spec, ok
}

// FieldNames lists every known field, sorted.
func FieldNames() []string {
	names := make([]string, 0, len(requestInfoFields))
	for name := range requestInfoFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Between accepts numbers in [min, max].
func Between(min, max float64) Predicate {
	return func(v interface{}) bool {
		f, ok := toFloat(v)
		return ok && f >= min && f <= max
	}
}

// AtLeast accepts numbers >= min.
func AtLeast(min float64) Predicate {
	return func(v interface{}) bool {
		f, ok := toFloat(v)
		return ok && f >= min
	}
}

// OneOf accepts strings from a fixed set.
func OneOf(values ...string) Predicate {
	return func(v interface{}) bool {
		s, ok := v.(string)
		return ok && slices.Contains(values, s)
	}
}

func matchesKind(v interface{}, kind Kind) bool {
	switch kind {
	case KindAny:
		return true
	case KindInteger:
		return isInteger(v)
	case KindNumber:
		_, ok := toFloat(v)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindObject:
		return isObject(v)
	case KindArray:
		return isArray(v)
	}
	return false
}

func isInteger(v interface{}) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return !math.IsInf(n, 0) && n == math.Trunc(n)
	case float32:
		f := float64(n)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case json.Number:
		f, err := n.Float64()
		return err == nil && !math.IsInf(f, 0) && f == math.Trunc(f)
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case float64:
		return n, !math.IsNaN(n)
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func isObject(v interface{}) bool {
	if raw, ok := v.(json.RawMessage); ok {
		return firstJSONByte(raw) == '{'
	}
	if raw, ok := marshaled(v); ok {
		return firstJSONByte(raw) == '{'
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	}
	return false
}

func isArray(v interface{}) bool {
	if raw, ok := v.(json.RawMessage); ok {
		return firstJSONByte(raw) == '['
	}
	if raw, ok := marshaled(v); ok {
		return firstJSONByte(raw) == '['
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// marshaled encodes values that choose their own JSON form, such as time.Time,
// so their kind is judged by what actually goes on the wire.
func marshaled(v interface{}) (json.RawMessage, bool) {
	switch v.(type) {
	case json.Marshaler, encoding.TextMarshaler:
	default:
		return nil, false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, true
	}
	return raw, true
}

func firstJSONByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// arrayElems returns the elements of a slice, array or JSON array.
func arrayElems(v interface{}) ([]interface{}, bool) {
	raw, ok := v.(json.RawMessage)
	if !ok {
		raw, ok = marshaled(v)
	}
	if ok {
		var elems []interface{}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&elems); err != nil {
			return nil, false
		}
		return elems, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elems := make([]interface{}, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

func validImageSize(v interface{}) bool {
	elems, ok := arrayElems(v)
	if !ok || len(elems) != 2 {
		return false
	}
	for _, e := range elems {
		if !isInteger(e) {
			return false
		}
		if f, _ := toFloat(e); f < 1 {
			return false
		}
	}
	return true
}

func nonEmptyArray(v interface{}) bool {
	elems, ok := arrayElems(v)
	return ok && len(elems) >= 1
}

func validClientVersion(v interface{}) bool {
	if _, ok := v.(string); ok {
		return true
	}
	if !isInteger(v) {
		return false
	}
	f, _ := toFloat(v)
	return f >= 0
}

func floatPtr(f float64) *float64 {
	return &f
}

var requestInfoFields = indexFields([]FieldSpec{
	{Name: "Latitude", Kind: KindNumber, Valid: Between(-90, 90), Min: floatPtr(-90), Max: floatPtr(90),
		Description: "Best guess of the user's latitude in degrees north (WGS84)."},
	{Name: "Longitude", Kind: KindNumber, Valid: Between(-180, 180), Min: floatPtr(-180), Max: floatPtr(180),
		Description: "Best guess of the user's longitude in degrees (WGS84)."},
	{Name: "PositionTime", Kind: KindInteger,
		Description: "Unix time at which the position fix was taken."},
	{Name: "PositionHorizontalAccuracy", Kind: KindNumber, Valid: AtLeast(0), Min: floatPtr(0),
		Description: "Estimated accuracy of the position, in meters."},
	{Name: "Street", Kind: KindString},
	{Name: "City", Kind: KindString},
	{Name: "State", Kind: KindString, Description: "US state, omitted elsewhere."},
	{Name: "Country", Kind: KindString},
	{Name: "ControllableTrackPlaying", Kind: KindBoolean, Default: false,
		Description: "Whether the client is playing a track it can control."},
	{Name: "TimeStamp", Kind: KindInteger,
		Description: "Unix time at which the client started the request."},
	{Name: "TimeZone", Kind: KindString, Description: "Olson time zone name."},
	{Name: "ConversationState", Kind: KindObject,
		Description: "ConversationState echoed back from the previous response."},
	{Name: "ConversationStateTime", Kind: KindInteger,
		Description: "ConversationStateTime echoed back from the previous response."},
	{Name: "ClientState", Kind: KindAny},
	{Name: "SendBack", Kind: KindAny,
		Description: "Arbitrary JSON returned untouched in the result."},
	{Name: "PreferredImageSize", Kind: KindArray, Valid: validImageSize,
		Description: "Width and height in pixels, both >= 1."},
	{Name: "InputLanguage", Kind: KindString, Default: "English"},
	{Name: "OutputLanguage", Kind: KindString, Default: "English"},
	{Name: "ResultVersionAccepted", Kind: KindNumber, Valid: AtLeast(1), Min: floatPtr(1)},
	{Name: "UnitPreference", Kind: KindString, Valid: OneOf("US", "METRIC"), Allowed: []string{"US", "METRIC"}},
	{Name: "ClientID", Kind: KindString,
		Description: "Name distinguishing one kind of client from another."},
	{Name: "ClientVersion", Kind: KindAny, Valid: validClientVersion,
		Description: "String, or integer >= 0."},
	{Name: "DeviceID", Kind: KindString},
	{Name: "FirstPersonSelf", Kind: KindString, Default: "Hound"},
	{Name: "FirstPersonSelfSpoken", Kind: KindString},
	{Name: "SecondPersonSelf", Kind: KindArray, Default: []string{"Hound"}},
	{Name: "SecondPersonSelfSpoken", Kind: KindArray},
	{Name: "WakeUpPattern", Kind: KindString, Default: `[["OK"] . "Hound"]`},
	{Name: "UserID", Kind: KindString},
	{Name: "RequestID", Kind: KindString},
	{Name: "SessionID", Kind: KindString},
	{Name: "ResultUpdateAllowed", Kind: KindBoolean, Default: false},
	{Name: "PartialTranscriptsDesired", Kind: KindBoolean, Default: false},
	{Name: "MinResults", Kind: KindInteger, Valid: AtLeast(1), Min: floatPtr(1), Default: 1},
	{Name: "MaxResults", Kind: KindInteger, Valid: AtLeast(1), Min: floatPtr(1), Default: 1},
	{Name: "ObjectByteCountPrefix", Kind: KindBoolean, Default: false},
	{Name: "ClientMatches", Kind: KindArray, Valid: nonEmptyArray},
	{Name: "ClientMatchesOnly", Kind: KindBoolean, Default: false},
	{Name: "UseContactData", Kind: KindBoolean, Default: true},
	{Name: "UseClientTime", Kind: KindBoolean, Default: false},
	{Name: "ForceConversationStateTime", Kind: KindInteger},
})

func indexFields(specs []FieldSpec) map[string]FieldSpec {
	fields := make(map[string]FieldSpec, len(specs))
	for _, spec := range specs {
		// every field is currently optional on the service side
		spec.Optional = true
		fields[spec.Name] = spec
	}
	return fields
}
