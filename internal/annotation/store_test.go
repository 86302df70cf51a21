package annotation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ResolveDefault(t *testing.T) {
	s := NewStore()

	got := s.Resolve(Position{Fret: 3, String: 1}, Transparent)

	assert.Equal(t, Annotation{Type: TypeNote, Color: DefaultColor, Shape: Circle, Visibility: Transparent}, got)
}

func TestStore_UpdateMerges(t *testing.T) {
	s := NewStore()
	pos := Position{Fret: 3, String: 1}

	s.Update(pos, Annotation{Visibility: Visible})
	s.Update(pos, Annotation{Color: "#ac443a"})

	stored, ok := s.Get(pos)
	require.True(t, ok)
	assert.Equal(t, Annotation{Color: "#ac443a", Visibility: Visible}, stored)

	got := s.Resolve(pos, Hidden)
	assert.Equal(t, Circle, got.Shape)
	assert.Equal(t, Visible, got.Visibility)
	assert.Equal(t, "#ac443a", got.Color)
}

func TestStore_PutDeleteReset(t *testing.T) {
	s := NewStore()
	a := Position{Fret: 1, String: 0}
	b := Position{Fret: 2, String: 0}

	s.Put(a, Annotation{NoteText: "R"})
	s.Put(b, Annotation{NoteText: "3"})
	require.Equal(t, 2, s.Len())

	s.Delete(a)
	_, ok := s.Get(a)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestStore_PositionsOrdered(t *testing.T) {
	s := NewStore()
	s.Put(Position{Fret: 5, String: 2}, Annotation{})
	s.Put(Open(2), Annotation{})
	s.Put(Position{Fret: 9, String: 0}, Annotation{})

	assert.Equal(t, []Position{{Fret: 9, String: 0}, Open(2), {Fret: 5, String: 2}}, s.Positions())
}

func TestStore_CloneIsIndependent(t *testing.T) {
	s := NewStore()
	pos := Position{Fret: 1, String: 1}
	s.Put(pos, Annotation{Visibility: Visible})

	c := s.Clone()
	c.Delete(pos)

	assert.Equal(t, 1, s.Len())
}

func TestStore_SetDefaultVisibility(t *testing.T) {
	s := NewStore()
	placed := Position{Fret: 1, String: 0}
	highlighted := Position{Fret: 2, String: 0}
	faded := Position{Fret: 3, String: 0}
	colored := Position{Fret: 4, String: 0}
	s.Put(placed, Annotation{Visibility: Visible})
	s.Put(highlighted, Annotation{Visibility: Highlight})
	s.Put(faded, Annotation{Visibility: Transparent})
	s.Put(colored, Annotation{Color: "#000000"})

	s.SetDefaultVisibility(Hidden)

	assert.Equal(t, Visible, s.Resolve(placed, Hidden).Visibility)
	assert.Equal(t, Highlight, s.Resolve(highlighted, Hidden).Visibility)
	assert.Equal(t, Hidden, s.Resolve(faded, Hidden).Visibility)
	assert.Equal(t, Hidden, s.Resolve(colored, Hidden).Visibility)
}

func TestStore_Demote(t *testing.T) {
	s := NewStore()
	pos := Position{Fret: 1, String: 0}
	s.Put(pos, Annotation{Visibility: Selected, Color: "#000000"})

	s.Demote()

	got, _ := s.Get(pos)
	assert.Equal(t, Annotation{Visibility: Visible, Color: "#000000"}, got)
}

func TestStore_JSON(t *testing.T) {
	s := NewStore()
	s.Put(Open(0), Annotation{Visibility: Visible})
	s.Put(Position{Fret: 3, String: 1}, Annotation{Type: TypeNote, Color: "#f2bb1d", Shape: Diamond, Visibility: Visible, NoteText: "R"})

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"o-s0": {"visibility": "visible"},
		"f3-s1": {"type": "note", "color": "#f2bb1d", "shape": "diamond", "visibility": "visible", "noteText": "R"}
	}`, string(data))

	out := NewStore()
	require.NoError(t, json.Unmarshal(data, out))
	assert.Equal(t, s, out)
}

func TestStore_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad key", `{"fret3": {"visibility": "visible"}}`},
		{"bad shape", `{"f3-s1": {"shape": "star"}}`},
		{"bad visibility", `{"f3-s1": {"visibility": "blinking"}}`},
		{"bad type", `{"f3-s1": {"type": "chord"}}`},
		{"not an object", `[]`},
		{"padded key", `{"f02-s0": {"visibility": "visible"}}`},
		{"duplicate slot", `{"f2-s0": {"color": "red"}, "f02-s0": {"color": "blue"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			assert.Error(t, json.Unmarshal([]byte(tt.data), s))
		})
	}
}

func TestStore_UnmarshalPaddedKeyIsInvalidKey(t *testing.T) {
	s := NewStore()
	s.Put(Position{Fret: 2, String: 0}, Annotation{Color: "red"})
	err := json.Unmarshal([]byte(`{"f2-s0": {"color": "red"}, "f02-s0": {"color": "blue"}}`), s)
	require.ErrorIs(t, err, ErrInvalidKey)

	got, ok := s.Get(Position{Fret: 2, String: 0})
	require.True(t, ok)
	assert.Equal(t, "red", got.Color)
}

func TestStore_UnmarshalNull(t *testing.T) {
	s := NewStore()
	require.NoError(t, json.Unmarshal([]byte(`null`), s))

	s.Put(Open(0), Annotation{})
	assert.Equal(t, 1, s.Len())
}
