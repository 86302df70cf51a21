package render

import (
	"strconv"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/pitch"
	"github.com/fretdiagram/fretboard/internal/view"
)

const (
	nutWidth       = 6
	fretLineWidth  = 2
	inlayWidth     = 6
	inlayInset     = 8
	inlayFretGap   = 7
	selectedStroke = "#d46c40"
	labelFontSize  = "16px"
	markerFontSize = "18px"
	titleFontSize  = "20px"
	fontFamily     = "Arial, Helvetica, sans-serif"
	errorColor     = "#ac443a"
	errorWidth     = 800
	errorHeight    = 280
)

var opacities = map[annotation.Visibility]string{
	annotation.Visible:     "1",
	annotation.Selected:    "1",
	annotation.Highlight:   "1",
	annotation.Transparent: "0.3",
	annotation.Hidden:      "0",
}

// Render draws the fretboard. It is a pure function of its inputs; the
// window in state must already be valid.
func Render(cfg *instrument.Config, state view.State, store *annotation.Store) *Scene {
	r := renderer{cfg: cfg, state: state, store: store, derived: cfg.Derived()}
	return r.scene()
}

// ErrorScene shows msg in place of the fretboard.
func ErrorScene(msg string) *Scene {
	text := &Node{
		Tag:   "text",
		ID:    "error",
		Class: "error",
		Attrs: attrs("x", "400", "y", "140"),
		Style: Style{"fill": errorColor, "font-family": fontFamily, "font-size": markerFontSize, "text-anchor": "middle"},
		Text:  msg,
	}
	return &Scene{Width: errorWidth, Height: errorHeight, Nodes: []*Node{text}, Err: msg}
}

type renderer struct {
	cfg     *instrument.Config
	state   view.State
	store   *annotation.Store
	derived instrument.DerivedConfig
}

func (r *renderer) fretboardWidth() float64 {
	return r.cfg.FretWidth * float64(r.state.EndFret-r.state.StartFret)
}

func (r *renderer) scene() *Scene {
	s := &Scene{
		Width:      r.fretboardWidth() + 2*r.cfg.OffsetX,
		Height:     r.derived.FretHeight + r.cfg.StringSpacing + 2*r.cfg.OffsetY,
		Background: r.cfg.Color.Get(instrument.ColorAppBackground),
	}
	if bg := r.cfg.Color.Get(instrument.ColorBackground); bg != "none" {
		s.Nodes = append(s.Nodes, &Node{
			Tag:   "rect",
			Class: "background",
			Attrs: attrs("x", "0", "y", "0", "width", num(s.Width), "height", num(s.Height)),
			Style: Style{"fill": bg, "stroke": "none"},
		})
	}
	s.Nodes = append(s.Nodes, r.title(), r.frets())
	if r.cfg.HasMarkerStyle(instrument.LinearInlays) {
		s.Nodes = append(s.Nodes, r.inlays())
	}
	if r.cfg.HasMarkerStyle(instrument.FretNumbers) {
		s.Nodes = append(s.Nodes, r.fretNumbers())
	}
	s.Nodes = append(s.Nodes, r.strings(), r.notes())
	return s
}

func (r *renderer) title() *Node {
	return &Node{
		Tag:   "text",
		ID:    "title",
		Class: "title",
		Attrs: attrs("x", num(r.cfg.OffsetX), "y", num(r.cfg.OffsetY/2)),
		Style: Style{
			"fill":              r.cfg.Color.Get(instrument.ColorTitle),
			"font-family":       fontFamily,
			"font-size":         titleFontSize,
			"dominant-baseline": "middle",
		},
		Text: r.cfg.Title,
	}
}

func (r *renderer) frets() *Node {
	g := &Node{Tag: "g", ID: "frets", Class: "frets"}
	top := r.cfg.OffsetY
	bottom := r.cfg.OffsetY + r.derived.FretHeight
	for i := r.state.StartFret; i <= r.state.EndFret; i++ {
		x := r.cfg.OffsetX + float64(i-r.state.StartFret)*r.cfg.FretWidth
		n := &Node{
			Tag:   "line",
			Class: "fret",
			Attrs: attrs("x1", num(x), "y1", num(top), "x2", num(x), "y2", num(bottom)),
			Style: Style{"stroke": r.cfg.Color.Get(instrument.ColorFret), "stroke-width": num(fretLineWidth), "stroke-linecap": "square"},
		}
		if i == 0 {
			n.Class = "nut"
			n.Style["stroke"] = r.cfg.Color.Get(instrument.ColorNut)
			n.Style["stroke-width"] = num(nutWidth)
		}
		g.Children = append(g.Children, n)
	}
	return g
}

// inMarkerRange reports whether physical fret i is drawn. Fret i closes the
// cell of note index i-1.
func (r *renderer) inMarkerRange(i int) bool {
	return i > r.state.StartFret && i <= r.state.EndFret
}

func (r *renderer) inlays() *Node {
	g := &Node{Tag: "g", ID: "inlays", Class: "inlays"}
	if r.derived.FretHeight <= 2*inlayInset {
		return g
	}
	for _, i := range r.cfg.Markers {
		if !r.inMarkerRange(i) {
			continue
		}
		x := r.cfg.OffsetX + float64(i-r.state.StartFret)*r.cfg.FretWidth - inlayFretGap
		g.Children = append(g.Children, &Node{
			Tag:   "line",
			Class: "inlay",
			Attrs: attrs("x1", num(x), "y1", num(r.cfg.OffsetY+inlayInset),
				"x2", num(x), "y2", num(r.cfg.OffsetY+r.derived.FretHeight-inlayInset)),
			Style: Style{"stroke": r.cfg.Color.Get(instrument.ColorInlay), "stroke-width": num(inlayWidth), "stroke-linecap": "round"},
		})
	}
	return g
}

func (r *renderer) fretNumbers() *Node {
	g := &Node{Tag: "g", ID: "fret-markers", Class: "fret-markers"}
	base := r.cfg.OffsetY + r.derived.FretHeight
	for i := r.state.StartFret + 1; i <= r.state.EndFret; i++ {
		x := r.cfg.OffsetX + float64(i-r.state.StartFret)*r.cfg.FretWidth - r.cfg.FretWidth/2
		n := &Node{
			Tag:   "text",
			Class: "small-fret-marker",
			Attrs: attrs("x", num(x), "y", num(base+0.75*r.cfg.StringSpacing)),
			Style: Style{
				"fill":        r.cfg.Color.Get(instrument.ColorSmallFretMarker),
				"font-family": fontFamily,
				"font-size":   labelFontSize,
				"text-anchor": "middle",
			},
			Text: strconv.Itoa(i + r.cfg.MarkerOffset),
		}
		if r.cfg.IsMarker(i) {
			n.Class = "fret-marker"
			n.Style["fill"] = r.cfg.Color.Get(instrument.ColorFretMarker)
			n.Style["font-size"] = markerFontSize
			n.Style["font-style"] = "italic"
		}
		g.Children = append(g.Children, n)
	}
	return g
}

func (r *renderer) strings() *Node {
	g := &Node{Tag: "g", ID: "strings", Class: "strings"}
	x1 := r.cfg.OffsetX
	if r.cfg.ShowOpenStrings {
		x1 = 0
	}
	x2 := r.cfg.OffsetX + r.fretboardWidth()
	for s := range r.derived.NumStrings {
		y := r.stringY(s)
		g.Children = append(g.Children, &Node{
			Tag:   "line",
			Class: "string",
			Attrs: attrs("x1", num(x1), "y1", num(y), "x2", num(x2), "y2", num(y)),
			Style: Style{"stroke": r.cfg.Color.Get(instrument.ColorString), "stroke-width": num(r.cfg.StringWidth(s))},
		})
	}
	return g
}

func (r *renderer) stringY(s int) float64 {
	return r.cfg.OffsetY + float64(s)*r.cfg.StringSpacing
}

func (r *renderer) noteX(fret int) float64 {
	if fret == annotation.OpenFret {
		return r.cfg.OffsetX / 2
	}
	return r.cfg.OffsetX + r.cfg.FretWidth/2 + r.cfg.FretWidth*float64(fret-r.state.StartFret)
}

func (r *renderer) notes() *Node {
	g := &Node{Tag: "g", ID: "notes", Class: "notes"}
	for s := range r.derived.NumStrings {
		if r.cfg.ShowOpenStrings {
			g.Children = append(g.Children, r.note(annotation.Open(s)))
		}
		for f := r.state.StartFret; f < r.state.EndFret; f++ {
			g.Children = append(g.Children, r.note(annotation.Position{Fret: f, String: s}))
		}
	}
	return g
}

func (r *renderer) label(pos annotation.Position) string {
	iv := r.cfg.StringIntervals
	if root := r.state.IntervalRoot; root != nil && root.String >= 0 && root.String < len(iv) {
		return pitch.IntervalName(pos.Fret, pos.String, root.Fret, root.String, iv, r.state.Enharmonic, r.cfg.OctaveNotes)
	}
	return pitch.NoteName(pos.Fret, pos.String, iv, r.state.Enharmonic, r.cfg.OctaveNotes)
}

func (r *renderer) note(pos annotation.Position) *Node {
	a := r.store.Resolve(pos, r.state.Visibility)
	if r.state.IsSelected(pos) {
		a.Visibility = annotation.Selected
	}
	_, annotated := r.store.Get(pos)

	fill := a.Color
	if fill == annotation.DefaultColor {
		fill = r.cfg.Color.Get(instrument.ColorNoteDefault)
	}
	stroke := r.cfg.Color.Get(instrument.ColorFret)
	strokeWidth := 2.0
	if a.Visibility == annotation.Highlight {
		stroke, strokeWidth = r.cfg.Color.Get(instrument.ColorNut), 5
	}
	textFill := ContrastColor(fill)
	if pos.IsOpen() && !annotated && a.Visibility != annotation.Selected {
		fill, stroke, textFill = "none", "none", r.cfg.Color.Get(instrument.ColorFretMarker)
	}
	plain := Style{"fill": fill, "stroke": stroke, "stroke-width": num(strokeWidth)}

	text := a.NoteText
	if text == "" {
		text = r.label(pos)
	}

	shape := shapeNode(a.Shape)
	shape.Class = "note-shape"
	shape.Style = plain
	if a.Visibility == annotation.Selected {
		shape.Style = Style{"fill": fill, "stroke": selectedStroke, "stroke-width": "4"}
		shape.ExportStyle = plain
	}

	return &Node{
		Tag:   "g",
		ID:    pos.Key(),
		Class: "note " + string(a.Visibility),
		Attrs: attrs("transform", "translate("+num(r.noteX(pos.Fret))+","+num(r.stringY(pos.String))+")"),
		Style: Style{"opacity": opacities[a.Visibility]},
		Children: []*Node{shape, {
			Tag:   "text",
			Class: "note-label",
			Style: Style{
				"fill":              textFill,
				"font-family":       fontFamily,
				"font-size":         labelFontSize,
				"text-anchor":       "middle",
				"dominant-baseline": "central",
			},
			Text: text,
		}},
	}
}

func shapeNode(shape annotation.Shape) *Node {
	const rad = instrument.CircleRadius
	switch shape {
	case annotation.Square:
		side := rad * 1.8
		return &Node{Tag: "rect", Attrs: attrs("x", num(-side/2), "y", num(-side/2), "width", num(side), "height", num(side))}
	case annotation.Diamond:
		d := rad * 1.2
		return &Node{Tag: "polygon", Attrs: attrs("points", points(0, -d, d, 0, 0, d, -d, 0))}
	case annotation.Triangle:
		d := rad * 1.2
		return &Node{Tag: "polygon", Attrs: attrs("points", points(0, -d, d, d*0.75, -d, d*0.75))}
	default:
		return &Node{Tag: "circle", Attrs: attrs("cx", "0", "cy", "0", "r", num(rad))}
	}
}

func points(xy ...float64) string {
	var out []byte
	for i := 0; i+1 < len(xy); i += 2 {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, num(xy[i])...)
		out = append(out, ',')
		out = append(out, num(xy[i+1])...)
	}
	return string(out)
}
