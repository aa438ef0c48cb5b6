package nsarchive

import "fmt"

// String fetches a required string value, resolving a UID if present.
func (a *Archive) String(d Dict, key string) (string, error) {
	v, err := a.value(d, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q: want string, got %T: %w", key, v, ErrTypeMismatch)
	}
	return s, nil
}

// StringOpt fetches an optional string. A missing key or the null marker
// yields the empty string.
func (a *Archive) StringOpt(d Dict, key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", nil
	}
	rv, err := a.resolve(v)
	if err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	if isNull(rv) {
		return "", nil
	}
	s, ok := rv.(string)
	if !ok {
		return "", fmt.Errorf("%q: want string, got %T: %w", key, rv, ErrTypeMismatch)
	}
	return s, nil
}

// Uint fetches a required unsigned integer, coercing the plist codec's
// numeric representations. Negative values are a mismatch.
func (a *Archive) Uint(d Dict, key string) (uint64, error) {
	v, err := a.value(d, key)
	if err != nil {
		return 0, err
	}
	return coerceUint(key, v)
}

// UintOpt fetches an optional unsigned integer. The second result reports
// whether the key was present and non-null; zero is a legitimate value.
func (a *Archive) UintOpt(d Dict, key string) (uint64, bool, error) {
	v, ok := d[key]
	if !ok {
		return 0, false, nil
	}
	rv, err := a.resolve(v)
	if err != nil {
		return 0, false, fmt.Errorf("%q: %w", key, err)
	}
	if isNull(rv) {
		return 0, false, nil
	}
	n, err := coerceUint(key, rv)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func coerceUint(key string, v interface{}) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%q: negative value %d: %w", key, n, ErrTypeMismatch)
		}
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%q: negative value %d: %w", key, n, ErrTypeMismatch)
		}
		return uint64(n), nil
	default:
		return 0, fmt.Errorf("%q: want integer, got %T: %w", key, v, ErrTypeMismatch)
	}
}

// Float fetches a required floating-point value. Integers coerce.
func (a *Archive) Float(d Dict, key string) (float64, error) {
	v, err := a.value(d, key)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%q: want real, got %T: %w", key, v, ErrTypeMismatch)
	}
}

// Bool fetches a required boolean value.
func (a *Archive) Bool(d Dict, key string) (bool, error) {
	v, err := a.value(d, key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%q: want boolean, got %T: %w", key, v, ErrTypeMismatch)
	}
	return b, nil
}

// Bytes fetches a required data value.
func (a *Archive) Bytes(d Dict, key string) ([]byte, error) {
	v, err := a.value(d, key)
	if err != nil {
		return nil, err
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%q: want data, got %T: %w", key, v, ErrTypeMismatch)
	}
	return b, nil
}

// Dict fetches a required dictionary value, resolving a UID if present.
func (a *Archive) Dict(d Dict, key string) (Dict, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrMissingKey)
	}
	return a.toDict(key, v)
}

// DictOpt fetches an optional dictionary. A missing key or the null marker
// yields nil without error.
func (a *Archive) DictOpt(d Dict, key string) (Dict, error) {
	v, ok := d[key]
	if !ok {
		return nil, nil
	}
	rv, err := a.resolve(v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	if isNull(rv) {
		return nil, nil
	}
	od, ok := rv.(Dict)
	if !ok {
		return nil, fmt.Errorf("%q: want dictionary, got %T: %w", key, rv, ErrTypeMismatch)
	}
	return od, nil
}

// Objects fetches a wrapped array (a dictionary whose NS.objects holds UID
// references) and resolves every element.
func (a *Archive) Objects(d Dict, key string) ([]interface{}, error) {
	wrapper, err := a.Dict(d, key)
	if err != nil {
		return nil, err
	}
	raw, ok := wrapper["NS.objects"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%q: want NS.objects array: %w", key, ErrTypeMismatch)
	}
	out := make([]interface{}, len(raw))
	for i, v := range raw {
		rv, err := a.resolve(v)
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: %w", key, i, err)
		}
		out[i] = rv
	}
	return out, nil
}
