package document

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fretdiagram/fretboard/internal/render"
	"github.com/fretdiagram/fretboard/internal/util"
	"github.com/rs/zerolog"
)

// Manager writes documents and exports under an output directory.
type Manager struct {
	Logger    zerolog.Logger
	OutputDir string
	Compress  bool

	lastPath string
}

// NewManager creates a manager writing to outputDir.
func NewManager(log zerolog.Logger, outputDir string, compress bool) *Manager {
	return &Manager{
		Logger:    log,
		OutputDir: outputDir,
		Compress:  compress,
	}
}

// LastPath returns the path of the most recent successful write.
func (m *Manager) LastPath() string {
	return m.lastPath
}

func (m *Manager) path(name string) (string, error) {
	if err := os.MkdirAll(m.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(m.OutputDir, name), nil
}

// Save writes doc as name.fbjson, or name.fbjson.gz when compressing. A
// blank name returns util.ErrEmptyFilename without touching the disk.
func (m *Manager) Save(name string, doc *Document) (string, error) {
	filename, err := util.JSONFilename(name)
	if err != nil {
		return "", err
	}
	if m.Compress {
		filename += util.GzipExt
	}
	outputPath, err := m.path(filename)
	if err != nil {
		return "", err
	}

	err = m.writeFile(outputPath, m.Compress, func(w io.Writer) error {
		return Encode(w, doc)
	})
	if err != nil {
		return "", err
	}
	m.Logger.Info().Str("path", outputPath).Int("notes", doc.Data.Len()).Msg("Saved fretboard")
	return outputPath, nil
}

// Load reads a document, decompressing gzip input transparently.
func (m *Manager) Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r, err := maybeGunzip(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	doc, err := Decode(r)
	if err != nil {
		m.Logger.Error().Err(err).Str("path", path).Msg("Failed to load fretboard")
		return nil, err
	}
	m.Logger.Debug().Str("path", path).Int("notes", doc.Data.Len()).Msg("Loaded fretboard")
	return doc, nil
}

// LoadResult is delivered by LoadAsync.
type LoadResult struct {
	Path string
	Doc  *Document
	Err  error
}

// LoadAsync loads path in the background. The channel receives exactly one
// result and is then closed. Cancelling ctx delivers ctx.Err() instead of a
// document; the caller applies the result only after it arrives.
func (m *Manager) LoadAsync(ctx context.Context, path string) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	go func() {
		defer close(out)
		done := make(chan LoadResult, 1)
		go func() {
			doc, err := m.Load(path)
			done <- LoadResult{Path: path, Doc: doc, Err: err}
		}()
		select {
		case <-ctx.Done():
			out <- LoadResult{Path: path, Err: ctx.Err()}
		case res := <-done:
			out <- res
		}
	}()
	return out
}

// ExportSVG writes the scene as a standalone SVG file.
func (m *Manager) ExportSVG(name string, scene *render.Scene) (string, error) {
	filename, err := util.SVGFilename(name)
	if err != nil {
		return "", err
	}
	outputPath, err := m.path(filename)
	if err != nil {
		return "", err
	}
	err = m.writeFile(outputPath, false, func(w io.Writer) error {
		return scene.WriteSVG(w, render.Options{Export: true})
	})
	if err != nil {
		return "", err
	}
	m.Logger.Info().Str("path", outputPath).Msg("Exported SVG")
	return outputPath, nil
}

// ExportMIDI writes the marked notes of doc as a standard MIDI file.
func (m *Manager) ExportMIDI(name string, doc *Document) (string, error) {
	filename, err := util.MIDIFilename(name)
	if err != nil {
		return "", err
	}
	outputPath, err := m.path(filename)
	if err != nil {
		return "", err
	}
	var skipped []int
	err = m.writeFile(outputPath, false, func(w io.Writer) error {
		var err error
		skipped, err = WriteMIDI(w, doc)
		return err
	})
	if err != nil {
		return "", err
	}
	if len(skipped) > 0 {
		m.Logger.Warn().Ints("pitches", skipped).Msg("Pitches outside the MIDI range were left out")
	}
	m.Logger.Info().Str("path", outputPath).Msg("Exported MIDI")
	return outputPath, nil
}

// writeFile writes to a temporary file next to path and renames it into
// place, so a failed write leaves any existing file intact.
func (m *Manager) writeFile(path string, compress bool, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	var w io.Writer = f
	var gzWriter *gzip.Writer
	if compress {
		gzWriter = gzip.NewWriter(f)
		w = gzWriter
	}
	if err = write(w); err != nil {
		return err
	}
	if gzWriter != nil {
		if err = gzWriter.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err = os.Chmod(f.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	m.lastPath = path
	return nil
}

var gzipMagic = []byte{0x1f, 0x8b}

func maybeGunzip(r *bufio.Reader) (io.Reader, error) {
	head, err := r.Peek(len(gzipMagic))
	if err != nil || !bytes.Equal(head, gzipMagic) {
		return r, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip stream: %w", err)
	}
	return gz, nil
}

// IsDocumentPath reports whether path names a saved fretboard.
func IsDocumentPath(path string) bool {
	return strings.HasSuffix(path, util.JSONExt) || strings.HasSuffix(path, util.JSONExt+util.GzipExt)
}
