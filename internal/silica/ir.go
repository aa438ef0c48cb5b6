package silica

import (
	"fmt"

	"github.com/mfauzaan/mica/internal/nsarchive"
)

// Keyed-archive class names the layer tree dispatches on.
const (
	classLayer = "SilicaLayer"
	classGroup = "SilicaGroup"
)

// The intermediate tree mirrors the archive's object graph: dictionaries
// plus structure, no pixels. Loading turns it into the document model and
// fills the texture array.

type nodeIR interface {
	layerCount() int
}

type layerIR struct {
	coder nsarchive.Dict
}

func (layerIR) layerCount() int { return 1 }

type groupIR struct {
	coder    nsarchive.Dict
	children []nodeIR
}

func (g groupIR) layerCount() int {
	n := 0
	for _, c := range g.children {
		n += c.layerCount()
	}
	return n
}

// decodeNodeIR dispatches on the object's $classname. Shared sub-objects
// decode again on every visit; the document tree has no cycles.
func decodeNodeIR(ka *nsarchive.Archive, v interface{}) (nodeIR, error) {
	coder, ok := v.(nsarchive.Dict)
	if !ok {
		return nil, fmt.Errorf("hierarchy node: want dictionary, got %T: %w", v, nsarchive.ErrTypeMismatch)
	}
	class, err := ka.ClassOf(coder)
	if err != nil {
		return nil, err
	}
	switch class.Name {
	case classLayer:
		return layerIR{coder: coder}, nil
	case classGroup:
		children, err := decodeChildrenIR(ka, coder, "children")
		if err != nil {
			return nil, err
		}
		return groupIR{coder: coder, children: children}, nil
	default:
		return nil, fmt.Errorf("hierarchy class %q: %w", class.Name, nsarchive.ErrUnknownClass)
	}
}

// decodeChildrenIR decodes a wrapped array of hierarchy nodes. The archive
// stores children front-to-back (topmost first); the model keeps them
// bottom-first, so the order is reversed here.
func decodeChildrenIR(ka *nsarchive.Archive, d nsarchive.Dict, key string) ([]nodeIR, error) {
	objects, err := ka.Objects(d, key)
	if err != nil {
		return nil, err
	}
	out := make([]nodeIR, len(objects))
	for i, obj := range objects {
		node, err := decodeNodeIR(ka, obj)
		if err != nil {
			return nil, fmt.Errorf("%q[%d]: %w", key, i, err)
		}
		out[len(objects)-1-i] = node
	}
	return out, nil
}
