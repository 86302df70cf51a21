package instrument

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

type presetFile []struct {
	Name   string         `yaml:"name"`
	Config map[string]any `yaml:"config"`
}

// LoadPresets reads user presets from YAML and adds them to c. The file is a
// list of {name, config} entries. Loading stops at the first invalid preset.
func (c *Catalog) LoadPresets(r io.Reader) (int, error) {
	var file presetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("error parsing presets: %w", err)
	}
	for i, entry := range file {
		if entry.Name == "" {
			return i, fmt.Errorf("preset #%d has no name", i+1)
		}
		if err := c.Add(entry.Name, Fields(entry.Config)); err != nil {
			return i, err
		}
	}
	return len(file), nil
}

// LoadPresetsFile is LoadPresets on a file path.
func (c *Catalog) LoadPresetsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("error opening presets: %w", err)
	}
	defer f.Close()
	return c.LoadPresets(f)
}

// WritePresets writes the named presets as YAML in the format LoadPresets
// reads.
func (c *Catalog) WritePresets(w io.Writer, names ...string) error {
	out := make(presetFile, 0, len(names))
	for _, name := range names {
		f, ok := c.presets[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
		}
		out = append(out, struct {
			Name   string         `yaml:"name"`
			Config map[string]any `yaml:"config"`
		}{name, f})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error writing presets: %w", err)
	}
	return enc.Close()
}
