package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/fretdiagram/fretboard/internal/annotation"
	"github.com/fretdiagram/fretboard/internal/config"
	"github.com/fretdiagram/fretboard/internal/document"
	"github.com/fretdiagram/fretboard/internal/instrument"
	"github.com/fretdiagram/fretboard/internal/logging"
	"github.com/fretdiagram/fretboard/internal/pitch"
	"github.com/fretdiagram/fretboard/internal/session"
	"github.com/fretdiagram/fretboard/internal/util"
	"github.com/fretdiagram/fretboard/internal/view"
)

// AppName prefixes log files.
const AppName = "fretboard"

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors caused by bad arguments.
type usageError struct {
	msg string
}

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// app carries what every subcommand needs.
type app struct {
	ctx     context.Context
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	zl      zerolog.Logger
	catalog *instrument.Catalog
	docs    *document.Manager
	logFile *os.File
	// current is the session being worked on, for log context.
	current *session.Session
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	configDir := fs.String("config-dir", ".", "directory holding "+config.FileName)
	fs.String("log-level", "", "log level: debug, info, warn or error")
	fs.String("preset", "", "instrument preset for new boards")
	fs.String("output-dir", "", "directory for saved and exported files")
	fs.Bool("compress", false, "gzip saved boards")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr, fs)
		return exitUsage
	}
	cmd, ok := findCommand(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		printUsage(stderr, fs)
		return exitUsage
	}

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	bindFlags(fs)

	a, err := newApp(ctx, stdout, stderr, !cmd.interactive)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer a.close()

	if err := cmd.run(a, rest[1:]); err != nil {
		var ue usageError
		if errors.As(err, &ue) || errors.Is(err, pflag.ErrHelp) {
			if !errors.Is(err, pflag.ErrHelp) {
				fmt.Fprintf(stderr, "%s: %v\nusage: %s %s\n", cmd.name, err, AppName, cmd.usage)
			}
			return exitUsage
		}
		a.logger.Error("command failed", "command", cmd.name, "error", err)
		fmt.Fprintf(stderr, "%s: %v\n", cmd.name, err)
		return exitError
	}
	return exitOK
}

func bindFlags(fs *pflag.FlagSet) {
	viper.BindPFlag("logLevel", fs.Lookup("log-level"))
	viper.BindPFlag("defaultPreset", fs.Lookup("preset"))
	viper.BindPFlag("output.dir", fs.Lookup("output-dir"))
	viper.BindPFlag("output.compress", fs.Lookup("compress"))
}

func newApp(ctx context.Context, stdout, stderr io.Writer, console bool) (*app, error) {
	a := &app{ctx: ctx, stdout: stdout, stderr: stderr}
	level := viper.GetString("logLevel")

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err == nil {
		path := logging.LogFilePath(logsDir, AppName, time.Now())
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open log file %s: %v\n", path, err)
		} else {
			a.logFile = f
		}
	}

	var consoleW io.Writer
	if console || a.logFile == nil {
		consoleW = stderr
	}
	var fileW io.Writer
	if a.logFile != nil {
		fileW = a.logFile
	}
	sm := logging.NewSlogManager()
	sm.Setup(consoleW, fileW, level, a.logContext)
	a.logger = sm.Logger()
	a.zl = logging.NewZerolog(fileW, level)

	a.catalog = instrument.Builtin()
	if path := viper.GetString("presetsFile"); path != "" {
		n, err := a.catalog.LoadPresetsFile(path)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("loading presets: %w", err)
		}
		a.logger.Debug("loaded user presets", "path", path, "count", n)
	}

	out := config.GetOutputConfig()
	a.docs = document.NewManager(a.zl, out.Dir, out.Compress)
	return a, nil
}

func (a *app) logContext() []slog.Attr {
	if a.current == nil {
		return nil
	}
	return []slog.Attr{
		slog.String("preset", a.current.Preset()),
		slog.Int("notes", a.current.Store().Len()),
	}
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// newSession starts a session on preset, or the configured default when
// preset is empty, with the configured initial view.
func (a *app) newSession(preset string) (*session.Session, error) {
	if preset == "" {
		preset = viper.GetString("defaultPreset")
	}
	s, err := session.New(a.catalog, preset, a.logger)
	if err != nil {
		return nil, err
	}
	a.current = s
	vc := config.GetViewConfig()
	if err := s.SetFretWindow(view.Window(vc.StartFret, vc.EndFret)); err != nil {
		a.logger.Warn("ignoring configured fret window", "error", err)
		s.SetFretWindow(view.Window(view.DefaultStartFret, view.DefaultEndFret))
	}
	if annotation.Visibility(vc.Visibility) == annotation.Hidden {
		s.ToggleVisibility()
	}
	if pitch.Enharmonic(vc.Enharmonic) == pitch.Flat {
		s.ToggleEnharmonic()
	}
	return s, nil
}

// open loads a saved board into a fresh session.
func (a *app) open(path string) (*session.Session, error) {
	if !document.IsDocumentPath(path) {
		return nil, usagef("%s is not a %s board", path, util.JSONExt)
	}
	doc, err := a.docs.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := a.newSession("")
	if err != nil {
		return nil, err
	}
	s.ApplyDocument(doc)
	return s, nil
}

// saveInPlace writes s back to the file it was loaded from.
func (a *app) saveInPlace(path string, s *session.Session) error {
	compress := strings.HasSuffix(path, util.GzipExt)
	m := document.NewManager(a.zl, filepath.Dir(path), compress)
	saved, err := m.Save(docName(path), s.Document())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, saved)
	return nil
}

// docName is the save name of a board path: its base without .gz.
func docName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), util.GzipExt)
}

// exportName derives an export name from a board path.
func exportName(path string) string {
	name := docName(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (a *app) warn(report annotation.Report) {
	if w := report.Warning(); w != "" {
		fmt.Fprintln(a.stderr, w)
	}
}
