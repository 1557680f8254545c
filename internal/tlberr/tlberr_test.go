package tlberr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "not found",
			err:      NotFound("Unregistered.Nonexistent.Library", "no catalog entry"),
			contains: []string{`"Unregistered.Nonexistent.Library"`, "not found", "no catalog entry"},
		},
		{
			name:     "load failed",
			err:      LoadFailed(`C:\lib\foo.tlb`, errors.New("bad image")),
			contains: []string{"loading type library", "foo.tlb", "bad image"},
		},
		{
			name:     "attribute",
			err:      AttributeUnavailable("guid", errors.New("E_FAIL")),
			contains: []string{"attribute guid unavailable", "E_FAIL"},
		},
		{
			name:     "documentation",
			err:      DocumentationUnavailable(-1, errors.New("TYPE_E_ELEMENTNOTFOUND")),
			contains: []string{"documentation_unavailable", "index -1", "TYPE_E_ELEMENTNOTFOUND"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("resolving: %w", NotFound("Foo", ""))

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}
	if errors.Is(err, ErrLoadFailed) {
		t.Error("errors.Is(err, ErrLoadFailed) = true, want false")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("access denied")
	err := LoadFailed("x.tlb", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	var te *Error
	if !errors.As(fmt.Errorf("wrap: %w", err), &te) {
		t.Fatal("errors.As failed")
	}
	if te.Identifier != "x.tlb" {
		t.Errorf("Identifier = %q, want %q", te.Identifier, "x.tlb")
	}
}
