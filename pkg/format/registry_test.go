package format

import (
	"strings"
	"testing"
)

// fakeDescriptor matches any path carrying its suffix.
type fakeDescriptor struct {
	tag    Tag
	suffix string
}

func (d *fakeDescriptor) Tag() Tag { return d.tag }

func (d *fakeDescriptor) Matches(path string) bool {
	return strings.HasSuffix(path, d.suffix)
}

func (d *fakeDescriptor) Open(path string) (Handle, error) {
	return nil, nil
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Both descriptors match ".bbx.gz"; the first registered must win.
	gz := &fakeDescriptor{tag: "bbx_gz", suffix: ".bbx.gz"}
	plain := &fakeDescriptor{tag: "bbx", suffix: ".gz"}

	reg, err := NewRegistry(gz, plain)
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	if tag := reg.Classify("obs1.bbx.gz"); tag != "bbx_gz" {
		t.Errorf("Expected first registered match 'bbx_gz', got %q", tag)
	}
}

func TestClassifyUnformatted(t *testing.T) {
	reg, err := NewRegistry(&fakeDescriptor{tag: "bbx", suffix: ".bbx"})
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	if tag := reg.Classify("notes.txt"); tag != TagUnformatted {
		t.Errorf("Expected TagUnformatted, got %q", tag)
	}
}

func TestRegisterReservedTag(t *testing.T) {
	reg, _ := NewRegistry()
	if err := reg.Register(&fakeDescriptor{tag: TagDirectory}); err == nil {
		t.Error("Registering the directory tag should fail")
	}
	if err := reg.Register(&fakeDescriptor{tag: TagUnformatted}); err == nil {
		t.Error("Registering the unformatted tag should fail")
	}
}

func TestRegisterDuplicateTag(t *testing.T) {
	reg, _ := NewRegistry(&fakeDescriptor{tag: "bbx", suffix: ".bbx"})
	if err := reg.Register(&fakeDescriptor{tag: "bbx", suffix: ".bbx2"}); err == nil {
		t.Error("Registering a duplicate tag should fail")
	}
}

func TestTagsOrder(t *testing.T) {
	reg, _ := NewRegistry(
		&fakeDescriptor{tag: "a", suffix: ".a"},
		&fakeDescriptor{tag: "b", suffix: ".b"},
		&fakeDescriptor{tag: "c", suffix: ".c"},
	)

	tags := reg.Tags()
	if len(tags) != 3 || tags[0] != "a" || tags[1] != "b" || tags[2] != "c" {
		t.Errorf("Tags should preserve registration order, got %v", tags)
	}
}
