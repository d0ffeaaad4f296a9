package referrors

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestMalformedReferenceError(t *testing.T) {
	t.Run("error message", func(t *testing.T) {
		err := &MalformedReferenceError{Ref: "#foo", Message: "fragment must start with /"}
		want := `malformed reference "#foo": fragment must start with /`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
	})

	t.Run("is sentinel", func(t *testing.T) {
		err := &MalformedReferenceError{Ref: "#foo"}
		if !errors.Is(err, ErrMalformedReference) {
			t.Error("expected errors.Is(err, ErrMalformedReference) to be true")
		}
		if errors.Is(err, ErrUnresolvableSource) {
			t.Error("expected errors.Is(err, ErrUnresolvableSource) to be false")
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		cause := errors.New("invalid escape")
		err := &MalformedReferenceError{Ref: "#/a~2", Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("expected cause to be reachable")
		}
	})
}

func TestUnresolvableSourceError(t *testing.T) {
	t.Run("no resolver", func(t *testing.T) {
		err := &UnresolvableSourceError{URL: "ftp://example.com/a.json", Message: "no resolver matches"}
		want := "unresolvable source: ftp://example.com/a.json: no resolver matches"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, ErrUnresolvableSource) {
			t.Error("expected ErrUnresolvableSource")
		}
		if errors.Is(err, ErrPathTraversal) {
			t.Error("did not expect ErrPathTraversal")
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		err := &UnresolvableSourceError{URL: "file:///etc/passwd", Resolver: "file", IsPathTraversal: true}
		if !strings.HasPrefix(err.Error(), "path traversal detected") {
			t.Errorf("Error() = %q, want path traversal prefix", err.Error())
		}
		if !errors.Is(err, ErrPathTraversal) {
			t.Error("expected ErrPathTraversal")
		}
		if !errors.Is(err, ErrUnresolvableSource) {
			t.Error("expected ErrUnresolvableSource")
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		err := &UnresolvableSourceError{URL: "file:///x", Cause: io.ErrUnexpectedEOF}
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Error("expected cause to be reachable")
		}
	})
}

func TestUnparsableContentError(t *testing.T) {
	err := &UnparsableContentError{URL: "file:///a.yaml", Parser: "yaml", Line: 3, Column: 7, Message: "did not find expected key"}
	want := "unparsable content in file:///a.yaml at line 3, column 7 (parser yaml): did not find expected key"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrUnparsableContent) {
		t.Error("expected ErrUnparsableContent")
	}

	var target *UnparsableContentError
	wrapped := fmt.Errorf("loading: %w", err)
	if !errors.As(wrapped, &target) || target.Line != 3 {
		t.Error("expected errors.As to find the UnparsableContentError")
	}
}

func TestMissingPointerError(t *testing.T) {
	err := &MissingPointerError{URL: "file:///a.json", Pointer: "/b/c", Token: "c", Message: "key not found"}
	want := `missing pointer file:///a.json#/b/c (token "c"): key not found`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrMissingPointer) {
		t.Error("expected ErrMissingPointer")
	}
}

func TestReferenceResolutionError(t *testing.T) {
	cause := &UnresolvableSourceError{URL: "ftp://x/y.json"}
	err := &ReferenceResolutionError{
		AtPointer: "mem:///root#/a",
		Ref:       "ftp://x/y.json#/z",
		TargetURL: "ftp://x/y.json",
		Cause:     cause,
	}

	t.Run("message", func(t *testing.T) {
		if !strings.Contains(err.Error(), `cannot resolve $ref "ftp://x/y.json#/z" at mem:///root#/a`) {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("matches own and cause sentinels", func(t *testing.T) {
		if !errors.Is(err, ErrReferenceResolution) {
			t.Error("expected ErrReferenceResolution")
		}
		if !errors.Is(err, ErrUnresolvableSource) {
			t.Error("expected cause sentinel ErrUnresolvableSource")
		}
		if errors.Is(err, ErrUnparsableContent) {
			t.Error("did not expect ErrUnparsableContent")
		}
	})

	t.Run("as cause type", func(t *testing.T) {
		var target *UnresolvableSourceError
		if !errors.As(err, &target) || target.URL != "ftp://x/y.json" {
			t.Error("expected errors.As to reach the cause")
		}
	})
}

func TestCircularReferenceError(t *testing.T) {
	tests := []struct {
		name string
		err  *CircularReferenceError
		want string
	}{
		{
			name: "with ref",
			err:  &CircularReferenceError{Path: "/a", Ref: "#/a", Ancestor: "/a"},
			want: `circular reference "#/a" at /a loops back to /a`,
		},
		{
			name: "root ancestor",
			err:  &CircularReferenceError{Path: "/a/b", Ref: "#"},
			want: `circular reference "#" at /a/b loops back to #`,
		},
		{
			name: "path only",
			err:  &CircularReferenceError{Path: "/x"},
			want: "circular reference at /x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
			}
			if !errors.Is(tt.err, ErrCircularReference) {
				t.Error("expected ErrCircularReference")
			}
		})
	}
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{ResourceType: "ref_depth", Limit: 100, Actual: 101}
	want := "resource limit exceeded: ref_depth (limit: 100, actual: 101)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrResourceLimit) {
		t.Error("expected ErrResourceLimit")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "concurrency", Value: -1, Message: "must be positive"}
	want := "configuration error for concurrency (value: -1): must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrConfig) {
		t.Error("expected ErrConfig")
	}
}

func TestErrorList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var l ErrorList
		if l.Err() != nil {
			t.Error("expected nil from empty list")
		}
		if l.Error() != "no errors" {
			t.Errorf("Error() = %q", l.Error())
		}
	})

	t.Run("single", func(t *testing.T) {
		l := ErrorList{&ConfigError{Option: "x"}}
		if l.Error() != "configuration error for x" {
			t.Errorf("Error() = %q", l.Error())
		}
	})

	t.Run("multiple", func(t *testing.T) {
		l := ErrorList{
			&ReferenceResolutionError{Ref: "a.json", Cause: &UnresolvableSourceError{URL: "a"}},
			&ReferenceResolutionError{Ref: "b.json", Cause: &UnparsableContentError{URL: "b"}},
		}
		err := l.Err()
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.HasPrefix(err.Error(), "2 errors occurred:") {
			t.Errorf("Error() = %q", err.Error())
		}
		if !errors.Is(err, ErrUnresolvableSource) {
			t.Error("expected ErrUnresolvableSource via Unwrap() []error")
		}
		if !errors.Is(err, ErrUnparsableContent) {
			t.Error("expected ErrUnparsableContent via Unwrap() []error")
		}
		var target *ReferenceResolutionError
		if !errors.As(err, &target) || target.Ref != "a.json" {
			t.Error("expected errors.As to find the first member")
		}
	})
}
