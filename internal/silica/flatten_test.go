package silica

import (
	"reflect"
	"testing"
)

func layer(slot uint32, clipped, hidden bool) *Layer {
	return &Layer{
		Blend:   BlendNormal,
		Clipped: clipped,
		Hidden:  hidden,
		Opacity: 1.0,
		Image:   slot,
	}
}

func TestFlatten_SingleLayer(t *testing.T) {
	root := &Group{Children: []Node{layer(0, false, false)}}

	got := Flatten(root)
	want := []CompositeRecord{{Slot: 0, Opacity: 1.0, Blend: BlendNormal}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %+v, want %+v", got, want)
	}
}

// A clipping chain: the bottom non-clipped layer masks both clipped layers
// stacked above it.
func TestFlatten_ClippingChain(t *testing.T) {
	a := layer(0, false, false)
	b := layer(1, true, false)
	c := layer(2, true, false)
	root := &Group{Children: []Node{a, b, c}}

	got := Flatten(root)
	want := []CompositeRecord{
		{Slot: 0, Opacity: 1.0, Blend: BlendNormal},
		{Slot: 1, Clipped: true, ClipSlot: 0, Opacity: 1.0, Blend: BlendNormal},
		{Slot: 2, Clipped: true, ClipSlot: 0, Opacity: 1.0, Blend: BlendNormal},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %+v, want %+v", got, want)
	}
}

// Hiding the mask suppresses the whole chain: the mask itself is skipped,
// and its clipped dependents have no visible source to clip to.
func TestFlatten_HiddenMaskSuppressesChain(t *testing.T) {
	a := layer(0, false, true)
	b := layer(1, true, false)
	c := layer(2, true, false)
	root := &Group{Children: []Node{a, b, c}}

	if got := Flatten(root); len(got) != 0 {
		t.Errorf("Flatten = %+v, want empty", got)
	}
}

func TestFlatten_HiddenLayerSkipped(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		layer(1, false, true),
		layer(2, false, false),
	}}

	got := Flatten(root)
	if len(got) != 2 || got[0].Slot != 0 || got[1].Slot != 2 {
		t.Errorf("Flatten = %+v, want slots [0 2]", got)
	}
}

func TestFlatten_HiddenGroupPruned(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		&Group{Hidden: true, Children: []Node{layer(1, false, false)}},
	}}

	got := Flatten(root)
	if len(got) != 1 || got[0].Slot != 0 {
		t.Errorf("Flatten = %+v, want just slot 0", got)
	}
}

// The mask set in an outer scope serves clipped layers inside a nested
// group.
func TestFlatten_MaskCrossesIntoGroup(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		&Group{Children: []Node{layer(1, true, false)}},
	}}

	got := Flatten(root)
	if len(got) != 2 {
		t.Fatalf("Flatten = %+v, want 2 records", got)
	}
	if !got[1].Clipped || got[1].ClipSlot != 0 {
		t.Errorf("record 1 = %+v, want clip to slot 0", got[1])
	}
}

// A mask set inside a group persists after the traversal leaves the group.
func TestFlatten_MaskPersistsOutOfGroup(t *testing.T) {
	root := &Group{Children: []Node{
		&Group{Children: []Node{layer(0, false, false)}},
		layer(1, true, false),
	}}

	got := Flatten(root)
	if len(got) != 2 {
		t.Fatalf("Flatten = %+v, want 2 records", got)
	}
	if !got[1].Clipped || got[1].ClipSlot != 0 {
		t.Errorf("record 1 = %+v, want clip to slot 0", got[1])
	}
}

// A clipped layer with no preceding non-clipped layer anywhere is a
// degenerate input and is dropped.
func TestFlatten_ClippedWithoutMaskDropped(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, true, false),
		layer(1, false, false),
	}}

	got := Flatten(root)
	if len(got) != 1 || got[0].Slot != 1 {
		t.Errorf("Flatten = %+v, want just slot 1", got)
	}
}

// Every emitted clip source must appear earlier in the emission as a
// non-clipped record.
func TestFlatten_ClipSourcePrecedes(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		layer(1, true, false),
		&Group{Children: []Node{
			layer(2, false, false),
			layer(3, true, false),
		}},
		layer(4, true, false),
	}}

	got := Flatten(root)
	seen := map[uint32]bool{}
	for _, rec := range got {
		if rec.Clipped && !seen[rec.ClipSlot] {
			t.Errorf("record %+v clips to slot %d, which was not emitted earlier as a mask", rec, rec.ClipSlot)
		}
		if !rec.Clipped {
			seen[rec.Slot] = true
		}
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		&Group{Children: []Node{layer(1, true, false), layer(2, false, true)}},
		layer(3, true, false),
	}}

	first := Flatten(root)
	second := Flatten(root)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("flatten is not deterministic: %+v vs %+v", first, second)
	}
}

func TestLayerCount(t *testing.T) {
	root := &Group{Children: []Node{
		layer(0, false, false),
		&Group{Children: []Node{
			layer(1, false, false),
			&Group{Children: []Node{layer(2, false, false)}},
		}},
	}}
	if n := root.LayerCount(); n != 3 {
		t.Errorf("LayerCount = %d, want 3", n)
	}
}
