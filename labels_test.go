package trackcam

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLabels(t *testing.T) {

	file := filepath.Join(t.TempDir(), "labels.txt")

	content := "person\ncar\n  bicycle  \n"

	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("writing labels file: %v", err)
	}

	labels, err := LoadLabels(file)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"person", "car", "bicycle"}

	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}

	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: got %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestLoadLabelsMissingFile(t *testing.T) {

	_, err := LoadLabels(filepath.Join(t.TempDir(), "nope.txt"))

	if err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestIDGenerator(t *testing.T) {

	gen := NewIDGenerator()

	for want := int64(1); want <= 5; want++ {
		if got := gen.GetNext(); got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}
