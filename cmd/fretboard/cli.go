package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/logging"
	"github.com/fretdiagram/fretboard/internal/pitch"
	"github.com/fretdiagram/fretboard/internal/session"
	"github.com/fretdiagram/fretboard/internal/tui"
)

type command struct {
	name  string
	usage string
	help  string
	// interactive commands own the terminal, so logs go to the file only.
	interactive bool
	run         func(a *app, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "presets", usage: "presets [--write FILE]", help: "list instrument presets or write them as YAML", run: runPresets},
		{name: "new", usage: "new NAME", help: "save an empty board", run: runNew},
		{name: "render", usage: "render FILE [--out NAME]", help: "export a board as SVG", run: runRender},
		{name: "switch", usage: "switch FILE PRESET", help: "change the instrument, carrying notes over", run: runSwitch},
		{name: "mark", usage: "mark FILE FRET STRING [--color C] [--shape S] [--label TEXT] [--highlight]", help: "mark one note", run: runMark},
		{name: "note", usage: "note FILE NAME... [--any-octave]", help: "mark every position sounding the named notes", run: runNote},
		{name: "tuning", usage: "tuning FILE STRING... [--title T] [--markers M] [--open] [--xfret]", help: "set a custom tuning, strings as NOTE OCTAVE[:WIDTH] from top", run: runTuning},
		{name: "midi", usage: "midi FILE [--out NAME]", help: "export the marked notes as a MIDI file", run: runMIDI},
		{name: "exec", usage: "exec FILE COMMAND [ARG...]", help: "run one editor command on a board", run: runExec},
		{name: "commands", usage: "commands", help: "list editor commands", run: runCommands},
		{name: "edit", usage: "edit [FILE]", help: "open the terminal editor", interactive: true, run: runEdit},
	}
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "usage: %s [flags] COMMAND [ARGS]\n\ncommands:\n", AppName)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.help)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nflags:\n%s", fs.FlagUsages())
}

// parseArgs parses subcommand flags and checks the positional count.
func parseArgs(fs *pflag.FlagSet, args []string, min int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, usagef("%v", err)
	}
	if fs.NArg() < min {
		return nil, usagef("expected at least %d argument(s), got %d", min, fs.NArg())
	}
	return fs.Args(), nil
}

func runPresets(a *app, args []string) error {
	fs := pflag.NewFlagSet("presets", pflag.ContinueOnError)
	write := fs.String("write", "", "write every preset to FILE as YAML")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return err
	}
	names := a.catalog.Names()
	if *write != "" {
		f, err := os.Create(*write)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := a.catalog.WritePresets(f, names...); err != nil {
			return err
		}
		a.logger.Info("presets written", "path", *write, "count", len(names))
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "%s\t%s\n", n, a.catalog.Title(n))
	}
	return tw.Flush()
}

func runNew(a *app, args []string) error {
	fs := pflag.NewFlagSet("new", pflag.ContinueOnError)
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	s, err := a.newSession("")
	if err != nil {
		return err
	}
	path, err := a.docs.Save(rest[0], s.Document())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}

func runRender(a *app, args []string) error {
	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	out := fs.String("out", "", "export name")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	s, err := a.open(rest[0])
	if err != nil {
		return err
	}
	name := *out
	if name == "" {
		name = exportName(rest[0])
	}
	path, err := a.docs.ExportSVG(name, s.Render())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}

func runSwitch(a *app, args []string) error {
	fs := pflag.NewFlagSet("switch", pflag.ContinueOnError)
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	s, err := a.open(rest[0])
	if err != nil {
		return err
	}
	report, err := s.SwitchPreset(rest[1])
	if err != nil {
		return err
	}
	a.warn(report)
	return a.saveInPlace(rest[0], s)
}

func runMark(a *app, args []string) error {
	fs := pflag.NewFlagSet("mark", pflag.ContinueOnError)
	color := fs.String("color", "", "note color")
	shape := fs.String("shape", "", "note shape")
	label := fs.String("label", "", "note text")
	highlight := fs.Bool("highlight", false, "highlight the note")
	rest, err := parseArgs(fs, args, 3)
	if err != nil {
		return err
	}
	s, err := a.open(rest[0])
	if err != nil {
		return err
	}
	ctrl, err := a.controller(s)
	if err != nil {
		return err
	}

	steps := [][]string{{session.CmdSelect, rest[1], rest[2]}}
	if *color != "" {
		steps = append(steps, []string{session.CmdColor, *color})
	}
	if *shape != "" {
		steps = append(steps, []string{session.CmdShape, *shape})
	}
	if *label != "" {
		steps = append(steps, []string{session.CmdLabel, *label})
	}
	if *highlight {
		steps = append(steps, []string{session.CmdHighlight, "on"})
	}
	steps = append(steps, []string{session.CmdDeselect})
	for _, step := range steps {
		if _, err := ctrl.Dispatch(step[0], step[1:]...); err != nil {
			return err
		}
	}
	return a.saveInPlace(rest[0], s)
}

func runNote(a *app, args []string) error {
	fs := pflag.NewFlagSet("note", pflag.ContinueOnError)
	anyOctave := fs.Bool("any-octave", false, "match the note name in every octave")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	wanted := make([]int, 0, len(rest)-1)
	for _, name := range rest[1:] {
		p, err := parseNote(name, *anyOctave)
		if err != nil {
			return usagef("%v", err)
		}
		wanted = append(wanted, p)
	}
	s, err := a.open(rest[0])
	if err != nil {
		return err
	}

	matches := func(p int) bool {
		for _, w := range wanted {
			if p == w || (*anyOctave && (p-w)%12 == 0) {
				return true
			}
		}
		return false
	}
	marked := 0
	for _, pos := range boardPositions(s.Board()) {
		if !matches(s.Board().Pitch(pos)) {
			continue
		}
		if existing, ok := s.Store().Get(pos); ok && (existing.Visibility.Live() || existing.Visibility == annotation.Highlight) {
			continue
		}
		if err := s.Select(pos); err != nil {
			return err
		}
		marked++
	}
	s.ClearSelection()
	fmt.Fprintf(a.stderr, "marked %d note(s)\n", marked)
	return a.saveInPlace(rest[0], s)
}

// parseNote reads a note name. With anyOctave the octave may be omitted.
func parseNote(name string, anyOctave bool) (int, error) {
	p, err := pitch.Parse(name)
	if err != nil && anyOctave {
		if q, err2 := pitch.Parse(name + "4"); err2 == nil {
			return q, nil
		}
	}
	return p, err
}

// boardPositions lists every drawn position, open column first.
func boardPositions(b annotation.Board) []annotation.Position {
	var out []annotation.Position
	for str := range b.Intervals {
		if b.ShowOpen {
			out = append(out, annotation.Open(str))
		}
		for f := b.StartFret; f < b.EndFret; f++ {
			out = append(out, annotation.Position{Fret: f, String: str})
		}
	}
	return out
}

var stringSpecPattern = regexp.MustCompile(`^([A-Ga-g](?:#|b|♯|♭)?)(-?\d+)(?::([0-9.]+))?$`)

const defaultStringWidth = 1.0

// parseStringSpec reads a configurator row such as "E4" or "Bb2:1.5".
func parseStringSpec(text string) (instrument.StringSpec, error) {
	m := stringSpecPattern.FindStringSubmatch(text)
	if m == nil {
		return instrument.StringSpec{}, fmt.Errorf("%w: %q", pitch.ErrInvalidNoteName, text)
	}
	octave, err := strconv.Atoi(m[2])
	if err != nil {
		return instrument.StringSpec{}, fmt.Errorf("%w: %q", pitch.ErrInvalidNoteName, text)
	}
	width := defaultStringWidth
	if m[3] != "" {
		if width, err = strconv.ParseFloat(m[3], 64); err != nil {
			return instrument.StringSpec{}, fmt.Errorf("%w: width %q", instrument.ErrInvalidString, m[3])
		}
	}
	return instrument.StringSpec{Note: m[1], Octave: octave, Width: width}, nil
}

func runTuning(a *app, args []string) error {
	fs := pflag.NewFlagSet("tuning", pflag.ContinueOnError)
	var layout instrument.Layout
	fs.StringVar(&layout.Title, "title", "", "instrument title")
	fs.StringVar(&layout.Markers, "markers", "", "inlay frets, e.g. \"3, 5, 7\"")
	fs.BoolVar(&layout.ShowOpenStrings, "open", false, "show the open-string column")
	fs.BoolVar(&layout.XFret, "xfret", false, "number frets from the zero fret")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	rows := make([]instrument.StringSpec, 0, len(rest)-1)
	for _, text := range rest[1:] {
		row, err := parseStringSpec(text)
		if err != nil {
			return usagef("%v", err)
		}
		rows = append(rows, row)
	}
	cfg, err := instrument.Build(layout, rows)
	if err != nil {
		return err
	}
	s, err := a.open(rest[0])
	if err != nil {
		return err
	}
	a.warn(s.ApplyConfig(cfg))
	return a.saveInPlace(rest[0], s)
}

func runMIDI(a *app, args []string) error {
	fs := pflag.NewFlagSet("midi", pflag.ContinueOnError)
	out := fs.String("out", "", "export name")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	doc, err := a.docs.Load(rest[0])
	if err != nil {
		return err
	}
	name := *out
	if name == "" {
		name = exportName(rest[0])
	}
	path, err := a.docs.ExportMIDI(name, doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, path)
	return nil
}

func runExec(a *app, args []string) error {
	if len(args) < 2 {
		return usagef("expected a file and a command")
	}
	s, err := a.open(args[0])
	if err != nil {
		return err
	}
	ctrl, err := a.controller(s)
	if err != nil {
		return err
	}
	result, err := ctrl.Dispatch(args[1], args[2:]...)
	if err != nil {
		return err
	}
	switch r := result.(type) {
	case nil:
	case annotation.Report:
		a.warn(r)
	default:
		fmt.Fprintln(a.stderr, r)
	}
	return a.saveInPlace(args[0], s)
}

func runCommands(a *app, args []string) error {
	s, err := a.newSession("")
	if err != nil {
		return err
	}
	ctrl, err := a.controller(s)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, c := range ctrl.Commands() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Help)
	}
	return tw.Flush()
}

func runEdit(a *app, args []string) error {
	fs := pflag.NewFlagSet("edit", pflag.ContinueOnError)
	preset := fs.String("preset", "", "instrument preset for a new board")
	rest, err := parseArgs(fs, args, 0)
	if err != nil {
		return err
	}
	s, err := a.newSession(*preset)
	if err != nil {
		return err
	}
	ctrl, err := a.controller(s)
	if err != nil {
		return err
	}
	opts := tui.Options{Controller: ctrl, Documents: a.docs}
	if len(rest) > 0 {
		opts.LoadPath = rest[0]
		opts.Filename = exportName(rest[0])
	}

	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.logger.Info("editor started", "file", opts.LoadPath)
	return tui.Run(ctx, opts)
}

func (a *app) controller(s *session.Session) (*session.Controller, error) {
	return session.NewController(s, logging.NewCommands(a.zl))
}

