package tui

import "github.com/charmbracelet/bubbles/key"

// Key builds a binding whose help shows the first key.
func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Select     key.Binding
	Edit       key.Binding
	Deselect   key.Binding
	WindowDown key.Binding
	WindowUp   key.Binding
	NextPreset key.Binding
	PrevPreset key.Binding
	Save       key.Binding
	ExportSVG  key.Binding
	ExportMIDI key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Note edits are routed through session.KeyCommand; these bindings only
	// feed the help view.
	Colors     key.Binding
	Palette    key.Binding
	Shapes     key.Binding
	Highlight  key.Binding
	Interval   key.Binding
	Delete     key.Binding
	Enharmonic key.Binding
	Visibility key.Binding
	Octaves    key.Binding
}

var keys = keyMap{
	Up:         Key("string up", "up"),
	Down:       Key("string down", "down"),
	Left:       Key("fret left", "left"),
	Right:      Key("fret right", "right"),
	Select:     Key("select note", "enter", " "),
	Edit:       Key("edit label", "t"),
	Deselect:   Key("deselect", "esc"),
	WindowDown: Key("frets down", "["),
	WindowUp:   Key("frets up", "]"),
	NextPreset: Key("next instrument", "p"),
	PrevPreset: Key("previous instrument", "P"),
	Save:       Key("save", "ctrl+s"),
	ExportSVG:  Key("export svg", "ctrl+x"),
	ExportMIDI: Key("export midi", "M"),
	Help:       Key("more keys", "?"),
	Quit:       Key("quit", "ctrl+c", "q"),

	Colors:     Key("colors", "y/b/k/g/w/r"),
	Palette:    Key("custom colors", "shift+1..9"),
	Shapes:     Key("shapes", "1..4"),
	Highlight:  Key("highlight", "f"),
	Interval:   Key("intervals from note", "i"),
	Delete:     Key("reset note", "x"),
	Enharmonic: Key("sharps/flats", "e"),
	Visibility: Key("show/hide unmarked", "v"),
	Octaves:    Key("octave numbers", "o"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Edit, k.Colors, k.Shapes, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Edit, k.Deselect},
		{k.Colors, k.Palette, k.Shapes, k.Highlight, k.Delete},
		{k.Interval, k.Enharmonic, k.Visibility, k.Octaves},
		{k.WindowDown, k.WindowUp, k.NextPreset, k.PrevPreset},
		{k.Save, k.ExportSVG, k.ExportMIDI, k.Help, k.Quit},
	}
}
