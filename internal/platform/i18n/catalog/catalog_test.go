package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "ar"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if got := len(bundle.NamespaceMessages(BaseLocale, "core")); got == 0 {
		t.Fatal("expected en-US core namespace messages")
	}
}

func TestEmbeddedArabicTranslatesEveryKey(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if missing := bundle.MissingKeys("ar"); len(missing) != 0 {
		t.Fatalf("ar is missing %d keys: %v", len(missing), missing)
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/listings.yaml"), `locale: en-US
namespace: listings
messages:
  core.bad: nope
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected namespace prefix error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: ar
namespace: core
messages:
  core.ok: ok
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/ar/core.yaml"), `locale: ar
namespace: core
messages:
  core.ok: حسنا
`)

	if _, err := LoadFromFS(os.DirFS(tempDir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	tempDir := t.TempDir()
	mustWriteFile(t, filepath.Join(tempDir, "locales/en-US/core.yaml"), `locale: en-US
namespace: core
messages:
  core.save: Save
  core.cancel: Cancel
`)
	mustWriteFile(t, filepath.Join(tempDir, "locales/ar/core.yaml"), `locale: ar
namespace: core
messages:
  core.save: حفظ
`)

	bundle, err := LoadFromFS(os.DirFS(tempDir))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := bundle.Message("ar", "core.save"); got != "حفظ" {
		t.Fatalf("ar save = %q", got)
	}
	if got, ok := bundle.Message("ar", "core.cancel"); !ok || got != "Cancel" {
		t.Fatalf("fallback cancel = %q, %v", got, ok)
	}
	if missing := bundle.MissingKeys("ar"); len(missing) != 1 || missing[0] != "core.cancel" {
		t.Fatalf("missing = %v", missing)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
