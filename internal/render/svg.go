package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const svgNS = "http://www.w3.org/2000/svg"

// Options control SVG output.
type Options struct {
	// Export produces a standalone image: an XML declaration is written,
	// fully transparent elements are dropped and selection marks are
	// removed.
	Export bool
}

// namedEntities swaps the numeric quote references of encoding/xml for the
// named XML entities.
var namedEntities = strings.NewReplacer("&#34;", "&quot;", "&#39;", "&apos;")

// WriteSVG encodes the scene as an SVG document. Markup characters in text
// and attributes are written as the five named XML entities.
func (s *Scene) WriteSVG(w io.Writer, opts Options) error {
	var buf bytes.Buffer
	if err := s.encode(&buf, opts); err != nil {
		return err
	}
	if _, err := namedEntities.WriteString(w, buf.String()); err != nil {
		return fmt.Errorf("error writing svg: %w", err)
	}
	return nil
}

func (s *Scene) encode(w io.Writer, opts Options) error {
	enc := xml.NewEncoder(w)
	if opts.Export {
		if err := enc.EncodeToken(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="UTF-8"`)}); err != nil {
			return fmt.Errorf("error writing svg: %w", err)
		}
		if err := enc.EncodeToken(xml.CharData("\n")); err != nil {
			return fmt.Errorf("error writing svg: %w", err)
		}
	}
	root := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: svgNS},
			{Name: xml.Name{Local: "width"}, Value: num(s.Width)},
			{Name: xml.Name{Local: "height"}, Value: num(s.Height)},
			{Name: xml.Name{Local: "viewBox"}, Value: fmt.Sprintf("0 0 %s %s", num(s.Width), num(s.Height))},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("error writing svg: %w", err)
	}
	for _, n := range s.Nodes {
		if err := encodeNode(enc, n, opts); err != nil {
			return fmt.Errorf("error writing svg: %w", err)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("error writing svg: %w", err)
	}
	return enc.Flush()
}

func encodeNode(enc *xml.Encoder, n *Node, opts Options) error {
	if opts.Export && n.Hidden() {
		return nil
	}
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	if n.ID != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "id"}, Value: n.ID})
	}
	if n.Class != "" && !opts.Export {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "class"}, Value: n.Class})
	}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	style := n.Style
	if opts.Export && n.ExportStyle != nil {
		style = n.ExportStyle
	}
	if len(style) > 0 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "style"}, Value: style.String()})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encodeNode(enc, c, opts); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
