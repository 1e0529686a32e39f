package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/jscore/vm"
	"github.com/chazu/jscore/vm/blob"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[runtime]
strict = true
sparse-array-factor = 8

[blob]
strip-debug = true
cache = "cache/blobs.db"

[logging]
verbosity = 2
file = "jscore.log"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.Runtime.Strict {
		t.Error("runtime strict = false, want true")
	}
	if c.Runtime.SparseArrayFactor != 8 {
		t.Errorf("sparse-array-factor = %d, want 8", c.Runtime.SparseArrayFactor)
	}
	if c.BlobFlags() != blob.StripDebug {
		t.Errorf("BlobFlags() = %d, want StripDebug", c.BlobFlags())
	}
	if c.Logging.Verbosity != 2 || c.Logging.File != "jscore.log" {
		t.Errorf("logging = %+v", c.Logging)
	}
	if want := filepath.Join(c.Dir, "cache", "blobs.db"); c.CachePath() != want {
		t.Errorf("CachePath() = %q, want %q", c.CachePath(), want)
	}

	s := vm.NewState(c.StateOptions()...)
	if got := s.Config(); !got.Strict || got.SparseArrayFactor != 8 {
		t.Errorf("state config = %+v", got)
	}
}

func TestDefaults(t *testing.T) {
	for _, c := range []*Config{Default(), mustParse(t, "")} {
		if c.Runtime.Strict {
			t.Error("runtime strict = true, want false")
		}
		if c.Runtime.SparseArrayFactor != vm.DefaultSparseArrayFactor {
			t.Errorf("sparse-array-factor = %d, want %d", c.Runtime.SparseArrayFactor, vm.DefaultSparseArrayFactor)
		}
		if c.Blob.Cache != filepath.Join(".jscore", "blobs.db") {
			t.Errorf("blob cache = %q", c.Blob.Cache)
		}
		if c.BlobFlags() != 0 {
			t.Errorf("BlobFlags() = %d, want 0", c.BlobFlags())
		}
	}
}

func mustParse(t *testing.T, doc string) *Config {
	t.Helper()
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", doc, err)
	}
	return c
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"[runtime]\nstrict = \"yes\"",
		"[runtime]\nsparse-array-factor = -1",
		"[runtime]\nstrictt = true",
		"not toml",
	}
	for _, doc := range tests {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", doc)
		}
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[runtime]\nstrict = true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil || !c.Runtime.Strict {
		t.Fatalf("FindAndLoad() = %+v, want the root config", c)
	}
	abs, _ := filepath.Abs(root)
	if c.Dir != abs {
		t.Errorf("Dir = %q, want %q", c.Dir, abs)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of an empty dir should fail")
	}
}
