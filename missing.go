package goschema

// missingValue marks a value that was not supplied at all. It is distinct from
// nil, "" and every other data value.
type missingValue struct{}

func (missingValue) String() string { return "<missing>" }

// Missing is returned by accessors for absent keys and by fields that have
// nothing to contribute to the output.
var Missing any = missingValue{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingValue)
	return ok
}

// isEmpty reports whether a field should treat v as "not supplied": the
// sentinel, nil, or the empty string.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil, missingValue:
		return true
	case string:
		return t == ""
	}
	return false
}
