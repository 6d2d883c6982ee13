// Package claim models the claim contents of a credential as a JSON object
// and flattens it into leaf statements for hash commitment.
package claim

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrEncoding is returned when a claim value cannot be represented as JSON
// (unsupported Go type, cyclic structure, or nesting beyond maxDepth).
var ErrEncoding = errors.New("claim value cannot be encoded")

// maxDepth bounds claim nesting so malformed input cannot recurse unboundedly.
const maxDepth = 32

// Set holds the claim contents of a credential, keyed by claim name.
// Values are JSON-typed: string, bool, number, nil, array, nested object.
type Set map[string]interface{}

// Leaf is a single flattened claim statement.
type Leaf struct {
	Path  Path
	Value interface{}
}

// Path locates a leaf inside the claim set. Elements are string keys for
// objects and int indices for arrays.
type Path []interface{}

// String renders the path in JSON-pointer style, for error messages only.
func (p Path) String() string {
	out := ""
	for _, e := range p {
		out += fmt.Sprintf("/%v", e)
	}
	return out
}

// Key returns the top-level claim name the path belongs to.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	k, _ := p[0].(string)
	return k
}

// Normalize round-trips the set through encoding/json so that values are in
// canonical JSON form (all numbers become float64) no matter which Go types
// the caller used. Commitment hashing must only ever see normalized sets,
// otherwise the same credential would hash differently after a
// marshal/unmarshal cycle.
func Normalize(s Set) (Set, error) {
	if len(s) == 0 {
		return Set{}, nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	var out Set
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return out, nil
}

// Copy returns a deep copy of the set. The copy is normalized.
func Copy(s Set) (Set, error) {
	return Normalize(s)
}

// Flatten normalizes the set and walks it into leaf statements. Object keys
// are visited in sorted order so the result is deterministic, although the
// commitment root is order-independent anyway.
func Flatten(s Set) ([]Leaf, error) {
	normalized, err := Normalize(s)
	if err != nil {
		return nil, err
	}

	var leaves []Leaf
	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if err := walk(Path{k}, normalized[k], 1, &leaves); err != nil {
			return nil, err
		}
	}

	return leaves, nil
}

func walk(path Path, value interface{}, depth int, leaves *[]Leaf) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: nesting exceeds %d levels at %s", ErrEncoding, maxDepth, path)
	}

	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			*leaves = append(*leaves, Leaf{Path: path, Value: v})
			return nil
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			child := append(append(Path{}, path...), k)
			if err := walk(child, v[k], depth+1, leaves); err != nil {
				return err
			}
		}
	case []interface{}:
		if len(v) == 0 {
			*leaves = append(*leaves, Leaf{Path: path, Value: v})
			return nil
		}
		for i, elem := range v {
			child := append(append(Path{}, path...), i)
			if err := walk(child, elem, depth+1, leaves); err != nil {
				return err
			}
		}
	case string, bool, float64, nil:
		*leaves = append(*leaves, Leaf{Path: path, Value: v})
	default:
		return fmt.Errorf("%w: unsupported value of type %T at %s", ErrEncoding, value, path)
	}

	return nil
}
