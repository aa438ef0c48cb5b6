// Package nsarchive decodes NSKeyedArchiver property lists: a flat $objects
// table referenced from a tree-shaped $top through UID indirections, with
// class records stored as table entries of their own.
//
// The decoder is read-only and single-pass over the object table. Shared
// sub-objects (the same UID referenced from several parents) are decoded
// again on each visit; callers that need identity must compare UIDs.
package nsarchive

import (
	"errors"
	"fmt"

	"howett.net/plist"
)

// Errors reported while resolving and coercing archive values. All fetch
// failures wrap one of these, plus the key they occurred at.
var (
	ErrMissingKey   = errors.New("missing key")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrUIDRange     = errors.New("UID out of range")
	ErrUnknownClass = errors.New("unknown class name")
)

// Dict is a decoded archive dictionary. Values may still contain UIDs;
// always read them through the Archive fetch methods.
type Dict = map[string]interface{}

// Class describes a $class record: the concrete class name plus its
// ancestor chain.
type Class struct {
	Name    string
	Classes []string
}

// Archive is a parsed keyed archive.
type Archive struct {
	objects []interface{}
	top     Dict
}

// Parse decodes a keyed archive from plist bytes. Both the binary and the
// XML plist variants are accepted.
func Parse(data []byte) (*Archive, error) {
	var raw Dict
	if _, err := plist.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing plist: %w", err)
	}

	archiver, _ := raw["$archiver"].(string)
	if archiver != "NSKeyedArchiver" {
		return nil, fmt.Errorf("$archiver %q: %w", archiver, ErrTypeMismatch)
	}

	objects, ok := raw["$objects"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("$objects: %w", ErrMissingKey)
	}
	top, ok := raw["$top"].(Dict)
	if !ok {
		return nil, fmt.Errorf("$top: %w", ErrMissingKey)
	}

	return &Archive{objects: objects, top: top}, nil
}

// Root resolves the archive's root object dictionary.
func (a *Archive) Root() (Dict, error) {
	v, ok := a.top["root"]
	if !ok {
		return nil, fmt.Errorf("$top.root: %w", ErrMissingKey)
	}
	return a.toDict("root", v)
}

// resolve follows a UID into the object table. Non-UID values pass through
// unchanged, so inline values and referenced values read the same way.
func (a *Archive) resolve(v interface{}) (interface{}, error) {
	uid, ok := v.(plist.UID)
	if !ok {
		return v, nil
	}
	if uint64(uid) >= uint64(len(a.objects)) {
		return nil, fmt.Errorf("UID %d of %d objects: %w", uid, len(a.objects), ErrUIDRange)
	}
	return a.objects[uid], nil
}

// isNull reports whether a resolved value is the archive's null marker.
func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == "$null"
}

func (a *Archive) value(d Dict, key string) (interface{}, error) {
	v, ok := d[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrMissingKey)
	}
	rv, err := a.resolve(v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	return rv, nil
}

func (a *Archive) toDict(key string, v interface{}) (Dict, error) {
	rv, err := a.resolve(v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", key, err)
	}
	d, ok := rv.(Dict)
	if !ok {
		return nil, fmt.Errorf("%q: want dictionary, got %T: %w", key, rv, ErrTypeMismatch)
	}
	return d, nil
}

// ClassOf resolves the $class record of an object dictionary.
func (a *Archive) ClassOf(d Dict) (Class, error) {
	cd, err := a.Dict(d, "$class")
	if err != nil {
		return Class{}, err
	}
	name, err := a.String(cd, "$classname")
	if err != nil {
		return Class{}, err
	}
	var chain []string
	if raw, ok := cd["$classes"].([]interface{}); ok {
		for _, c := range raw {
			if s, ok := c.(string); ok {
				chain = append(chain, s)
			}
		}
	}
	return Class{Name: name, Classes: chain}, nil
}
