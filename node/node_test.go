package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_KeyOrder(t *testing.T) {
	m := NewMapping()
	m.Set("b", NewInt(1))
	m.Set("a", NewInt(2))
	m.Set("c", NewInt(3))
	m.Set("a", NewInt(4)) // replace keeps position

	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "4", v.Text)
	assert.Equal(t, 3, m.Len())

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, m.Keys())
}

func TestSequence(t *testing.T) {
	s := NewSequence(NewString("x"))
	s.Append(NewString("y"), NewString("z"))
	assert.Equal(t, 3, s.Len())

	v, ok := s.Index(1)
	require.True(t, ok)
	assert.Equal(t, "y", v.Text)

	_, ok = s.Index(3)
	assert.False(t, ok)
	_, ok = s.Index(-1)
	assert.False(t, ok)

	s.SetIndex(0, NewBool(true))
	assert.Equal(t, KindBool, s.Items()[0].Kind)
}

func TestSetPanicsOnScalar(t *testing.T) {
	assert.Panics(t, func() { NewString("x").Set("a", NewNull()) })
	assert.Panics(t, func() { NewMapping().Append(NewNull()) })
}

func TestReferenceSiblings(t *testing.T) {
	r := NewReference("#/a")
	assert.False(t, r.HasSiblings())
	r.Set("description", NewString("hello"))
	assert.True(t, r.HasSiblings())
	assert.True(t, r.IsReference())
	assert.False(t, r.IsContainer())
	assert.Equal(t, []string{"description"}, r.Keys())
}

func TestChild(t *testing.T) {
	m := NewMapping()
	m.Set("items", NewSequence(NewInt(10), NewInt(20)))
	m.Set("a/b", NewInt(1))

	items, ok := m.Child("items")
	require.True(t, ok)

	v, ok := items.Child("1")
	require.True(t, ok)
	assert.Equal(t, "20", v.Text)

	_, ok = items.Child("01")
	assert.False(t, ok, "leading zero is not a valid index")
	_, ok = items.Child("-")
	assert.False(t, ok)
	_, ok = m.Child("missing")
	assert.False(t, ok)

	v, ok = m.Child("a/b")
	require.True(t, ok)
	assert.Equal(t, "1", v.Text)

	_, ok = NewReference("#/x").Child("x")
	assert.False(t, ok, "references are not walked through by Child")
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"7", 7, true},
		{"123", 123, true},
		{"", 0, false},
		{"00", 0, false},
		{"-1", 0, false},
		{"1a", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseIndex(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "mapping", KindMapping.String())
	assert.Equal(t, "circular", KindCircular.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
