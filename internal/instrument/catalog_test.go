package instrument

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllPresetsLoad(t *testing.T) {
	c := Builtin()
	require.Len(t, c.Names(), 9)

	for _, name := range c.Names() {
		t.Run(name, func(t *testing.T) {
			cfg, err := c.Load(name)
			require.NoError(t, err)
			assert.Equal(t, len(cfg.StringIntervals), len(cfg.StringDisplayWidths))
			assert.NotEmpty(t, cfg.Title)
		})
	}
}

func TestBuiltin_Order(t *testing.T) {
	names := Builtin().Names()

	assert.Equal(t, "guitar", names[0])
	assert.Equal(t, "tapping_ns_stick_std", names[len(names)-1])
	assert.Contains(t, names, DefaultPreset)
}

func TestBuiltin_Guitar(t *testing.T) {
	cfg, err := Builtin().Load("guitar")
	require.NoError(t, err)

	assert.Equal(t, []int{52, 47, 43, 38, 33, 28}, cfg.StringIntervals)
	assert.True(t, cfg.ShowOpenStrings)
	assert.Equal(t, 0, cfg.MarkerOffset)
	assert.Equal(t, []int{3, 5, 7, 9, 12, 15, 17, 19, 21}, cfg.Markers)
}

func TestBuiltin_Tapping12(t *testing.T) {
	cfg, err := Builtin().Load(DefaultPreset)
	require.NoError(t, err)

	assert.Equal(t, []int{59, 54, 49, 44, 39, 34, 23, 30, 37, 44, 51, 58}, cfg.StringIntervals)
	assert.False(t, cfg.ShowOpenStrings)
	assert.Equal(t, -1, cfg.MarkerOffset)
	assert.Equal(t, []int{3, 8, 13, 18}, cfg.Markers)
}

func TestBuiltin_Isolated(t *testing.T) {
	a := Builtin()
	require.NoError(t, a.Add("extra", minimalFields()))

	assert.NotContains(t, Builtin().Names(), "extra")
}

func TestCatalog_LoadUnknown(t *testing.T) {
	_, err := Builtin().Load("banjo")

	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestCatalog_AddRejectsInvalid(t *testing.T) {
	c := NewCatalog()
	src := minimalFields()
	delete(src, "title")

	err := c.Add("broken", src)

	assert.ErrorIs(t, err, ErrSchema)
	assert.Empty(t, c.Names())
}

func TestCatalog_AddReplacesInPlace(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Add("a", minimalFields()))
	require.NoError(t, c.Add("b", minimalFields()))
	replaced := minimalFields()
	replaced["title"] = "Replaced"
	require.NoError(t, c.Add("a", replaced))

	assert.Equal(t, []string{"a", "b"}, c.Names())
	assert.Equal(t, "Replaced", c.Title("a"))
}

func TestCatalog_Title(t *testing.T) {
	c := Builtin()

	assert.Equal(t, "Guitar", c.Title("guitar"))
	assert.Equal(t, "my bass", c.Title("my_bass"))
}

func TestCatalog_Next(t *testing.T) {
	c := Builtin()
	names := c.Names()

	assert.Equal(t, names[1], c.Next(names[0], 1))
	assert.Equal(t, names[0], c.Next(names[len(names)-1], 1))
	assert.Equal(t, names[len(names)-1], c.Next(names[0], -1))
	assert.Equal(t, names[0], c.Next("unknown", 1))
}

func TestCatalog_LoadPresets(t *testing.T) {
	data := `
- name: five_string_bass
  config:
    title: Five string bass
    stringIntervals: [43, 38, 33, 28, 23]
    stringDisplayWidths: [1.0, 1.5, 2.0, 2.5, 3.0]
    markers: [3, 5, 7, 9, 12]
    color:
      background: white
`
	c := Builtin()

	n, err := c.LoadPresets(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cfg, err := c.Load("five_string_bass")
	require.NoError(t, err)
	assert.Equal(t, []int{43, 38, 33, 28, 23}, cfg.StringIntervals)
	assert.Equal(t, "white", cfg.Color[ColorBackground])
}

func TestCatalog_LoadPresetsStopsAtInvalid(t *testing.T) {
	data := `
- name: ok
  config:
    title: OK
    stringIntervals: [40]
    stringDisplayWidths: [1.0]
    markers: []
- name: broken
  config:
    title: Broken
    stringIntervals: [40]
    markers: []
`
	c := NewCatalog()

	n, err := c.LoadPresets(strings.NewReader(data))

	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "broken")
}

func TestCatalog_WritePresetsRoundTrip(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Builtin().WritePresets(&buf, "guitar", "tapping_ns_stick_std"))

	c := NewCatalog()
	n, err := c.LoadPresets(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, _ := Builtin().Load("tapping_ns_stick_std")
	got, err := c.Load("tapping_ns_stick_std")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
