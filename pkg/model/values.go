package model

// Values maps field names to in-memory values: strings for text-like kinds,
// time.Time (or nil) for dates.
type Values map[string]any

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Errors maps field names to validation messages. A missing key means the
// field is valid.
type Errors map[string]string

// Clone returns a copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

// Touched records which fields the user has interacted with.
type Touched map[string]bool

// Clone returns a copy.
func (t Touched) Clone() Touched {
	out := make(Touched, len(t))
	for key, value := range t {
		out[key] = value
	}
	return out
}

// Payload is the normalized form data sent to persistence: every date field
// is a YYYY-MM-DD string or nil.
type Payload map[string]any

// String returns the payload value for name as text. Missing and nil values
// read as "".
func (p Payload) String(name string) string {
	text, _ := stringText(p[name])
	return text
}

// Normalize builds the payload for values. It is a shallow copy where every
// date-kind field is serialized to YYYY-MM-DD, or nil when absent.
func Normalize(reg *Registry, values Values) Payload {
	payload := make(Payload, len(values))
	for key, value := range values {
		payload[key] = value
	}
	for _, field := range reg.Fields() {
		if field.Kind != KindDate {
			continue
		}
		text, ok := field.Behavior().Text(values[field.Name])
		if !ok {
			payload[field.Name] = nil
			continue
		}
		payload[field.Name] = text
	}
	return payload
}
