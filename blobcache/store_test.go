package blobcache

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/blob"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "blobs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testFunction() *vm.Function {
	return &vm.Function{
		Name:     "main",
		Script:   true,
		Filename: "main.js",
		Strs:     []string{"hello"},
		Code:     []int32{1, 2, 3},
		Funs:     []*vm.Function{{Name: "inner", NumParams: 1}},
	}
}

func TestPutGet(t *testing.T) {
	c := openTemp(t)
	s := vm.NewState()
	data, err := blob.Encode(s, testFunction(), 0)
	if err != nil {
		t.Fatal(err)
	}

	key, err := c.Put(s, data)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if key != Key(data) {
		t.Errorf("Put() key = %s, want %s", key, Key(data))
	}

	got, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("Get() returned different bytes")
	}
	if ok, _ := c.Has(key); !ok {
		t.Error("Has() = false for a stored key")
	}

	again, err := c.Put(s, data)
	if err != nil || again != key {
		t.Errorf("second Put() = %s, %v", again, err)
	}
	if entries, _ := c.List(); len(entries) != 1 {
		t.Errorf("List() = %d entries, want 1", len(entries))
	}
}

func TestPutRejectsInvalidBlob(t *testing.T) {
	c := openTemp(t)
	_, err := c.Put(vm.NewState(), []byte("not a blob at all"))
	if !errors.Is(err, blob.ErrInvalidMagic) {
		t.Errorf("Put() error = %v, want ErrInvalidMagic", err)
	}
}

func TestLoadAndDescribe(t *testing.T) {
	c := openTemp(t)
	key, err := c.PutFunction(vm.NewState(), testFunction(), 0)
	if err != nil {
		t.Fatalf("PutFunction() error = %v", err)
	}

	fn, err := c.Load(vm.NewState(), key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fn.Name != "main" || len(fn.Funs) != 1 || fn.Funs[0].NumParams != 1 {
		t.Errorf("Load() = %+v", fn)
	}

	desc, err := c.Describe(key)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if desc.Name != "main" || desc.Instructions != 3 || len(desc.Functions) != 1 {
		t.Errorf("Describe() = %+v", desc)
	}

	entries, _ := c.List()
	if len(entries) != 1 || entries[0].Name != "main" || entries[0].Size == 0 {
		t.Errorf("List() = %+v", entries)
	}
}

func TestMissingKey(t *testing.T) {
	c := openTemp(t)
	if _, err := c.Get("0000000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := c.Describe("0000000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Describe() error = %v, want ErrNotFound", err)
	}
	if ok, err := c.Has("0000000000000000"); ok || err != nil {
		t.Errorf("Has() = %v, %v", ok, err)
	}
}

func TestDelete(t *testing.T) {
	c := openTemp(t)
	key, _ := c.PutFunction(vm.NewState(), testFunction(), blob.StripDebug)
	if err := c.Delete(key); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Has(key); ok {
		t.Error("Has() = true after Delete")
	}
	if err := c.Delete(key); err != nil {
		t.Errorf("deleting a missing key error = %v", err)
	}
}

func TestReopenKeepsBlobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blobs.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	key, _ := c.PutFunction(vm.NewState(), testFunction(), 0)
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if ok, _ := c.Has(key); !ok {
		t.Error("blob lost across reopen")
	}
}

func TestKeyStable(t *testing.T) {
	if Key([]byte("abc")) != Key([]byte("abc")) || Key([]byte("abc")) == Key([]byte("abd")) {
		t.Error("Key should depend only on content")
	}
	if len(Key(nil)) != 16 {
		t.Errorf("Key length = %d, want 16", len(Key(nil)))
	}
}
