package importer

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestStagedExport_WriteSealRemove(t *testing.T) {
	staged, err := NewStagedExport("disk")
	if err != nil {
		t.Fatalf("NewStagedExport() error = %v", err)
	}

	if !strings.Contains(staged.Path(), "disk") {
		t.Errorf("Path() = %q, missing category in name", staged.Path())
	}

	if _, err := io.WriteString(staged.Writer(), "samples\n"); err != nil {
		t.Fatalf("write error = %v", err)
	}

	if err := staged.Seal(); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	info, err := os.Stat(staged.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("mode after Seal = %o, want 644", perm)
	}

	if err := staged.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Errorf("file %s still exists after Remove", staged.Path())
	}
}

func TestStagedExport_RemoveWithoutSeal(t *testing.T) {
	staged, err := NewStagedExport("cgroup")
	if err != nil {
		t.Fatalf("NewStagedExport() error = %v", err)
	}

	// Simulates the export-failed path: never sealed, still removed.
	if err := staged.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Errorf("file %s still exists after Remove", staged.Path())
	}
}

func TestStagedExport_RemoveIdempotent(t *testing.T) {
	staged, err := NewStagedExport("system")
	if err != nil {
		t.Fatalf("NewStagedExport() error = %v", err)
	}

	if err := staged.Remove(); err != nil {
		t.Fatalf("first Remove() error = %v", err)
	}
	if err := staged.Remove(); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
}

func TestStagedExport_UniqueNames(t *testing.T) {
	a, err := NewStagedExport("network")
	if err != nil {
		t.Fatalf("NewStagedExport() error = %v", err)
	}
	defer a.Remove()

	b, err := NewStagedExport("network")
	if err != nil {
		t.Fatalf("NewStagedExport() error = %v", err)
	}
	defer b.Remove()

	if a.Path() == b.Path() {
		t.Errorf("two staged exports share the path %s", a.Path())
	}
}
