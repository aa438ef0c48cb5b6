package nsarchive

import (
	"errors"
	"testing"

	"howett.net/plist"
)

// marshalArchive serializes an object table into a binary keyed archive.
func marshalArchive(t *testing.T, objects []interface{}, root plist.UID) []byte {
	t.Helper()
	data, err := plist.Marshal(map[string]interface{}{
		"$version":  100000,
		"$archiver": "NSKeyedArchiver",
		"$top":      map[string]interface{}{"root": root},
		"$objects":  objects,
	}, plist.BinaryFormat)
	if err != nil {
		t.Fatalf("marshalling archive: %v", err)
	}
	return data
}

func testArchive(t *testing.T) (*Archive, Dict) {
	t.Helper()
	objects := []interface{}{
		"$null",
		map[string]interface{}{ // 1: root
			"title":    plist.UID(2),
			"inline":   "direct string",
			"count":    uint64(42),
			"signed":   int64(7),
			"ratio":    0.5,
			"flag":     true,
			"blob":     []byte{1, 2, 3, 4},
			"absent":   plist.UID(0),
			"wrapped":  plist.UID(3),
			"$class":   plist.UID(6),
			"badUID":   plist.UID(99),
			"child":    plist.UID(5),
			"negative": int64(-3),
		},
		"a title", // 2
		map[string]interface{}{ // 3: wrapped array
			"NS.objects": []interface{}{plist.UID(2), plist.UID(4)},
		},
		uint64(9), // 4
		map[string]interface{}{ // 5: child object
			"$class": plist.UID(6),
		},
		map[string]interface{}{ // 6: class record
			"$classname": "SilicaDocument",
			"$classes":   []interface{}{"SilicaDocument", "NSObject"},
		},
	}
	data := marshalArchive(t, objects, plist.UID(1))

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root, err := a.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	return a, root
}

func TestParse_RejectsWrongArchiver(t *testing.T) {
	data, err := plist.Marshal(map[string]interface{}{
		"$version":  100000,
		"$archiver": "SomethingElse",
		"$top":      map[string]interface{}{"root": plist.UID(1)},
		"$objects":  []interface{}{"$null", "x"},
	}, plist.BinaryFormat)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(data); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("not a plist")); err == nil {
		t.Error("expected parse error")
	}
}

func TestString_ResolvesUID(t *testing.T) {
	a, root := testArchive(t)
	got, err := a.String(root, "title")
	if err != nil || got != "a title" {
		t.Errorf("String(title) = %q, %v", got, err)
	}
	got, err = a.String(root, "inline")
	if err != nil || got != "direct string" {
		t.Errorf("String(inline) = %q, %v", got, err)
	}
}

func TestString_Missing(t *testing.T) {
	a, root := testArchive(t)
	if _, err := a.String(root, "nope"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("err = %v, want ErrMissingKey", err)
	}
}

func TestString_TypeMismatch(t *testing.T) {
	a, root := testArchive(t)
	if _, err := a.String(root, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestStringOpt(t *testing.T) {
	a, root := testArchive(t)

	got, err := a.StringOpt(root, "absent") // UID to $null
	if err != nil || got != "" {
		t.Errorf("StringOpt(absent) = %q, %v, want empty", got, err)
	}
	got, err = a.StringOpt(root, "missing")
	if err != nil || got != "" {
		t.Errorf("StringOpt(missing) = %q, %v, want empty", got, err)
	}
	got, err = a.StringOpt(root, "title")
	if err != nil || got != "a title" {
		t.Errorf("StringOpt(title) = %q, %v", got, err)
	}
}

func TestUint(t *testing.T) {
	a, root := testArchive(t)

	if n, err := a.Uint(root, "count"); err != nil || n != 42 {
		t.Errorf("Uint(count) = %d, %v", n, err)
	}
	if n, err := a.Uint(root, "signed"); err != nil || n != 7 {
		t.Errorf("Uint(signed) = %d, %v", n, err)
	}
	if _, err := a.Uint(root, "negative"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Uint(negative) err = %v, want ErrTypeMismatch", err)
	}
	if _, err := a.Uint(root, "ratio"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Uint(ratio) err = %v, want ErrTypeMismatch", err)
	}
}

func TestUintOpt(t *testing.T) {
	a, root := testArchive(t)

	if _, ok, err := a.UintOpt(root, "missing"); err != nil || ok {
		t.Errorf("UintOpt(missing) ok = %v, %v, want absent", ok, err)
	}
	if _, ok, err := a.UintOpt(root, "absent"); err != nil || ok {
		t.Errorf("UintOpt(null) ok = %v, %v, want absent", ok, err)
	}
	if n, ok, err := a.UintOpt(root, "count"); err != nil || !ok || n != 42 {
		t.Errorf("UintOpt(count) = %d, %v, %v", n, ok, err)
	}
}

func TestFloat(t *testing.T) {
	a, root := testArchive(t)
	if f, err := a.Float(root, "ratio"); err != nil || f != 0.5 {
		t.Errorf("Float(ratio) = %v, %v", f, err)
	}
	if f, err := a.Float(root, "count"); err != nil || f != 42 {
		t.Errorf("Float(count) = %v, %v", f, err)
	}
}

func TestBool(t *testing.T) {
	a, root := testArchive(t)
	if b, err := a.Bool(root, "flag"); err != nil || !b {
		t.Errorf("Bool(flag) = %v, %v", b, err)
	}
	if _, err := a.Bool(root, "count"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Bool(count) err = %v, want ErrTypeMismatch", err)
	}
}

func TestBytes(t *testing.T) {
	a, root := testArchive(t)
	b, err := a.Bytes(root, "blob")
	if err != nil || len(b) != 4 || b[0] != 1 {
		t.Errorf("Bytes(blob) = %v, %v", b, err)
	}
}

func TestUIDOutOfRange(t *testing.T) {
	a, root := testArchive(t)
	if _, err := a.String(root, "badUID"); !errors.Is(err, ErrUIDRange) {
		t.Errorf("err = %v, want ErrUIDRange", err)
	}
}

func TestObjects(t *testing.T) {
	a, root := testArchive(t)
	objs, err := a.Objects(root, "wrapped")
	if err != nil {
		t.Fatalf("Objects: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("len = %d, want 2", len(objs))
	}
	if s, ok := objs[0].(string); !ok || s != "a title" {
		t.Errorf("objs[0] = %v, want resolved string", objs[0])
	}
	if n, ok := objs[1].(uint64); !ok || n != 9 {
		t.Errorf("objs[1] = %v, want resolved uint", objs[1])
	}
}

func TestClassOf(t *testing.T) {
	a, root := testArchive(t)
	class, err := a.ClassOf(root)
	if err != nil {
		t.Fatalf("ClassOf: %v", err)
	}
	if class.Name != "SilicaDocument" {
		t.Errorf("class name = %q", class.Name)
	}
	if len(class.Classes) != 2 || class.Classes[1] != "NSObject" {
		t.Errorf("class chain = %v", class.Classes)
	}
}

// A shared sub-object is resolved afresh through the object table on every
// fetch and decodes the same way each time.
func TestSharedUIDReenters(t *testing.T) {
	a, root := testArchive(t)
	first, err := a.Dict(root, "child")
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Dict(root, "child")
	if err != nil {
		t.Fatal(err)
	}
	c1, err := a.ClassOf(first)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := a.ClassOf(second)
	if err != nil {
		t.Fatal(err)
	}
	if c1.Name != c2.Name {
		t.Errorf("shared object decoded differently: %q vs %q", c1.Name, c2.Name)
	}
}

// The XML plist variant parses the same as the binary one.
func TestParse_XMLVariant(t *testing.T) {
	objects := []interface{}{
		"$null",
		map[string]interface{}{"value": plist.UID(2)},
		"hello",
	}
	data, err := plist.Marshal(map[string]interface{}{
		"$version":  100000,
		"$archiver": "NSKeyedArchiver",
		"$top":      map[string]interface{}{"root": plist.UID(1)},
		"$objects":  objects,
	}, plist.XMLFormat)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root, err := a.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if s, err := a.String(root, "value"); err != nil || s != "hello" {
		t.Errorf("String(value) = %q, %v", s, err)
	}
}
