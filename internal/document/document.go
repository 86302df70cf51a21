// Package document reads and writes saved fretboards and exports diagrams.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/view"
)

// ErrMalformed is returned when a document is not a JSON object of the
// expected shape.
var ErrMalformed = errors.New("malformed fretboard document")

// Document is the saved form of a session.
type Document struct {
	Cfg   *instrument.Config `json:"cfg"`
	Data  *annotation.Store  `json:"data"`
	State *view.State        `json:"state"`
}

type rawDocument struct {
	Cfg   instrument.Fields `json:"cfg"`
	Data  json.RawMessage   `json:"data"`
	State *view.State       `json:"state"`
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	return nil
}

// Decode reads a document. The configuration is checked against the
// instrument schema and every annotation key and value is validated. A
// missing state is left nil.
func Decode(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Cfg == nil {
		return nil, fmt.Errorf("%w: no cfg", ErrMalformed)
	}

	cfg := instrument.Default()
	if err := instrument.Copy(cfg, raw.Cfg); err != nil {
		return nil, err
	}

	store := annotation.NewStore()
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, store); err != nil {
			return nil, fmt.Errorf("%w: data: %w", ErrMalformed, err)
		}
	}

	if raw.State != nil && raw.State.Visibility != "" && !raw.State.Visibility.Valid() {
		return nil, fmt.Errorf("%w: state visibility %q", ErrMalformed, raw.State.Visibility)
	}

	return &Document{Cfg: cfg, Data: store, State: raw.State}, nil
}
