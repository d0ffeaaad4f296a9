package pathutil

import "testing"

func TestPathBuilder_Basic(t *testing.T) {
	p := &PathBuilder{}
	p.Push("properties")
	p.Push("name")

	got := p.String()
	want := "/properties/name"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPathBuilder_WithIndex(t *testing.T) {
	p := &PathBuilder{}
	p.Push("allOf")
	p.PushIndex(0)
	p.Push("properties")

	got := p.String()
	want := "/allOf/0/properties"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPathBuilder_Escaping(t *testing.T) {
	p := &PathBuilder{}
	p.Push("paths")
	p.Push("/pets/{id}")
	p.Push("a~b")

	got := p.String()
	want := "/paths/~1pets~1{id}/a~0b"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	tokens := p.Tokens()
	if len(tokens) != 3 || tokens[1] != "/pets/{id}" || tokens[2] != "a~b" {
		t.Errorf("Tokens() = %q, want unescaped tokens", tokens)
	}
}

func TestPathBuilder_PushPop(t *testing.T) {
	p := &PathBuilder{}
	p.Push("a")
	p.Push("b")
	p.Pop()
	p.Push("c")

	got := p.String()
	want := "/a/c"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if p.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", p.Depth())
	}
}

func TestPathBuilder_Empty(t *testing.T) {
	p := &PathBuilder{}
	got := p.String()
	if got != "" {
		t.Errorf("String() on empty = %q, want empty", got)
	}
}

func TestPathBuilder_EmptyToken(t *testing.T) {
	p := &PathBuilder{}
	p.Push("")
	got := p.String()
	if got != "/" {
		t.Errorf("String() with empty token = %q, want %q", got, "/")
	}
}

func TestPathBuilder_PopEmpty(t *testing.T) {
	p := &PathBuilder{}
	p.Pop() // Should not panic
	got := p.String()
	if got != "" {
		t.Errorf("String() after Pop on empty = %q, want empty", got)
	}
}

func TestPathBuilder_Reset(t *testing.T) {
	p := &PathBuilder{}
	p.Push("a")
	p.Push("b")
	p.Reset()

	got := p.String()
	if got != "" {
		t.Errorf("String() after Reset = %q, want empty", got)
	}

	// Should be reusable after reset
	p.Push("c")
	got = p.String()
	if got != "/c" {
		t.Errorf("String() after Reset+Push = %q, want %q", got, "/c")
	}
}

func TestPool_GetPut(t *testing.T) {
	p := Get()
	if p == nil {
		t.Fatal("Get() returned nil")
	}

	p.Push("test")
	Put(p)

	// Get another - may or may not be same instance
	p2 := Get()
	if p2 == nil {
		t.Fatal("Get() returned nil after Put")
	}
	// After Get, should be reset
	if p2.String() != "" {
		t.Errorf("Get() returned non-empty PathBuilder: %q", p2.String())
	}
	Put(p2)
}

func TestEscapeToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a/b", "a~1b"},
		{"a~b", "a~0b"},
		{"~/", "~0~1"},
		{"", ""},
	}
	for _, tt := range tests {
		got := EscapeToken(tt.in)
		if got != tt.want {
			t.Errorf("EscapeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if back := UnescapeToken(got); back != tt.in {
			t.Errorf("UnescapeToken(%q) = %q, want %q", got, back, tt.in)
		}
	}
}

func TestUnescapeToken_Order(t *testing.T) {
	// "~01" must decode to "~1", not "/".
	got := UnescapeToken("~01")
	if got != "~1" {
		t.Errorf("UnescapeToken(~01) = %q, want %q", got, "~1")
	}
}

func TestLocalRef(t *testing.T) {
	got := LocalRef("/definitions/Pet")
	want := "#/definitions/Pet"
	if got != want {
		t.Errorf("LocalRef = %q, want %q", got, want)
	}
	if LocalRef("") != "#" {
		t.Errorf("LocalRef(\"\") = %q, want #", LocalRef(""))
	}
}

func TestBundledRef(t *testing.T) {
	tests := []struct {
		namespace, slot, pointer string
		want                     string
	}{
		{"$bundled", "other", "/x", "#/$bundled/other/x"},
		{"$bundled", "other", "", "#/$bundled/other"},
		{"x-defs", "a/b", "/y~1z", "#/x-defs/a~1b/y~1z"},
	}
	for _, tt := range tests {
		got := BundledRef(tt.namespace, tt.slot, tt.pointer)
		if got != tt.want {
			t.Errorf("BundledRef(%q, %q, %q) = %q, want %q", tt.namespace, tt.slot, tt.pointer, got, tt.want)
		}
	}
}

func TestJoinTokens(t *testing.T) {
	if got := JoinTokens(nil); got != "" {
		t.Errorf("JoinTokens(nil) = %q, want empty", got)
	}
	if got := JoinTokens([]string{"a", "b/c", "0"}); got != "/a/b~1c/0" {
		t.Errorf("JoinTokens = %q, want %q", got, "/a/b~1c/0")
	}
}
