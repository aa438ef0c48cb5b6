package silica

// CompositeRecord is one entry of the flattened draw list. Slot is the
// layer's texture-array slot; when Clipped is set, ClipSlot names the
// non-clipped layer whose alpha masks this one.
type CompositeRecord struct {
	Slot     uint32
	Clipped  bool
	ClipSlot uint32
	Opacity  float32
	Blend    BlendingMode
}

// mask tracks the current clip source while walking the tree: the layer is
// kept alongside its slot so clipped followers can honor its hidden flag.
type maskState struct {
	slot  uint32
	layer *Layer
}

// Flatten walks the layer tree bottom to top and emits the draw list in
// submission order. Hidden layers and the full subtrees of hidden groups
// are pruned. A non-clipped visible layer becomes the clip source for the
// clipped layers that follow it, across group boundaries; a clipped layer
// whose source is hidden — or that has no source at all — is dropped.
//
// The walk is sequential and deterministic: flattening the same tree twice
// yields identical emissions.
func Flatten(root *Group) []CompositeRecord {
	out := make([]CompositeRecord, 0, root.LayerCount())
	var mask *maskState
	flattenGroup(root, &mask, &out)
	return out
}

func flattenGroup(g *Group, mask **maskState, out *[]CompositeRecord) {
	// Children are stored bottom-first; walking forward visits the clip
	// source before its clipped followers. The mask survives descending
	// into a subgroup and coming back out.
	for _, child := range g.Children {
		switch n := child.(type) {
		case *Group:
			if n.Hidden {
				continue
			}
			flattenGroup(n, mask, out)
		case *Layer:
			if n.Hidden {
				continue
			}
			if n.Clipped {
				if *mask == nil || (*mask).layer.Hidden {
					continue
				}
			} else {
				*mask = &maskState{slot: n.Image, layer: n}
			}
			rec := CompositeRecord{
				Slot:    n.Image,
				Opacity: n.Opacity,
				Blend:   n.Blend,
			}
			if n.Clipped {
				rec.Clipped = true
				rec.ClipSlot = (*mask).slot
			}
			*out = append(*out, rec)
		}
	}
}
