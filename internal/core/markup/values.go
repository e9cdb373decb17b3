package markup

import "net/url"

// arrayMarker is the two-character suffix that marks a field name as
// multi-valued. The logical key strips the marker; encoding re-adds it.
const arrayMarker = "[]"

type valueEntry struct {
	multi bool
	items []string
}

// Values holds serialized form data. Scalar fields hold a single value and
// later writes overwrite earlier ones; array-marked fields accumulate in
// submission order.
type Values struct {
	keys []string
	vals map[string]*valueEntry
}

// NewValues creates an empty value set.
func NewValues() *Values {
	return &Values{vals: make(map[string]*valueEntry)}
}

// Set stores a scalar value, overwriting any previous value for the key.
func (v *Values) Set(key, value string) {
	e, ok := v.vals[key]
	if !ok {
		e = &valueEntry{}
		v.vals[key] = e
		v.keys = append(v.keys, key)
	}
	e.multi = false
	e.items = []string{value}
}

// Append accumulates a value under an array-marked key.
func (v *Values) Append(key, value string) {
	e, ok := v.vals[key]
	if !ok {
		e = &valueEntry{multi: true}
		v.vals[key] = e
		v.keys = append(v.keys, key)
	}
	e.multi = true
	e.items = append(e.items, value)
}

// Get returns the scalar value for a key. The second return is false when the
// key is absent.
func (v *Values) Get(key string) (string, bool) {
	e, ok := v.vals[key]
	if !ok || len(e.items) == 0 {
		return "", false
	}
	return e.items[0], true
}

// List returns all values for a key, or nil when absent.
func (v *Values) List(key string) []string {
	e, ok := v.vals[key]
	if !ok {
		return nil
	}
	return e.items
}

// Multi reports whether the key was array-marked.
func (v *Values) Multi(key string) bool {
	e, ok := v.vals[key]
	return ok && e.multi
}

// Keys returns the logical keys in first-seen order.
func (v *Values) Keys() []string {
	return v.keys
}

// Len returns the number of logical keys.
func (v *Values) Len() int {
	return len(v.keys)
}

// Encode converts the value set to url.Values for transmission. Array-marked
// keys get their marker suffix back so the server reassembles the sequence.
func (v *Values) Encode() url.Values {
	out := make(url.Values, len(v.keys))
	for _, key := range v.keys {
		e := v.vals[key]
		wire := key
		if e.multi {
			wire = key + arrayMarker
		}
		out[wire] = append([]string(nil), e.items...)
	}
	return out
}
