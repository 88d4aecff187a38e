package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/kungfusheep/canvasform"
	"github.com/kungfusheep/canvasform/teahost"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config   string
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "canvasform",
		Short:        "Fill in a form drawn on the terminal",
		Long:         "canvasform draws a form described in YAML onto the terminal, lets you click and tab between fields and type into them, and prints the values on submit.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "form definition (YAML); defaults to name/year/age")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "trace, debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file (logging is off without it)")

	cmd.AddCommand(
		newRunCmd(opts),
		newRenderCmd(opts),
	)
	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	var host string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the form interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := loadDefinition(opts.config)
			if err != nil {
				return err
			}
			logger, closeLog, err := openLogger(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			var values map[string]string
			switch host {
			case "term":
				values, err = runTerminal(cmd.Context(), def, logger)
			case "tea":
				values, err = runTea(def, logger)
			default:
				return fmt.Errorf("unknown host %q (want term or tea)", host)
			}
			if err != nil || values == nil {
				return err
			}
			return writeValues(cmd.OutOrStdout(), def, values)
		},
	}
	cmd.Flags().StringVar(&host, "host", "term", "event host: term (raw terminal) or tea (bubbletea)")
	return cmd
}

func newRenderCmd(opts *options) *cobra.Command {
	var width, height int
	var focus string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the laid-out form without reading input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := loadDefinition(opts.config)
			if err != nil {
				return err
			}
			surface := canvasform.NewBufferSurface(canvasform.NewBuffer(width, height))
			form, err := def.Build(surface)
			if err != nil {
				return err
			}
			form.LayoutAndRender(def.Origin.X, def.Origin.Y)
			if focus != "" {
				field, ok := form.Field(focus)
				if !ok {
					return fmt.Errorf("no field labelled %q", focus)
				}
				b := field.Bounds()
				form.HandlePointer(b.X, b.Y)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), surface.Buffer().StringTrimmed())
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 40, "surface width in cells")
	cmd.Flags().IntVar(&height, "height", 20, "surface height in cells")
	cmd.Flags().StringVar(&focus, "focus", "", "label of a field to focus before printing")
	return cmd
}

func loadDefinition(path string) (canvasform.Definition, error) {
	if path == "" {
		return canvasform.DefaultDefinition(), nil
	}
	def, err := canvasform.LoadDefinitionFile(path)
	if err != nil {
		return canvasform.Definition{}, fmt.Errorf("load %s: %w", path, err)
	}
	return def, nil
}

func openLogger(opts *options) (zerolog.Logger, func(), error) {
	if opts.logFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	level, err := canvasform.ParseLogLevel(opts.logLevel)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	fh, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	cfg := canvasform.DefaultLogConfig()
	cfg.Level = level
	cfg.Output = fh
	return canvasform.NewLogger(cfg), func() { fh.Close() }, nil
}

// submitHandler validates on Enter. Valid values are stored and done is
// called; otherwise report receives a one-line summary of the errors.
func submitHandler(def canvasform.Definition, values *map[string]string, done func(), report func(string)) canvasform.Option {
	return canvasform.OnSubmit(func(f *canvasform.Form) {
		errs := def.Validate(f)
		if len(errs) == 0 {
			*values = f.Values()
			done()
			return
		}
		report(summarize(errs))
	})
}

func summarize(errs map[string]error) string {
	labels := make([]string, 0, len(errs))
	for label := range errs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = label + ": " + errs[label].Error()
	}
	return strings.Join(parts, "; ")
}

var (
	frameStyle = canvasform.DefaultStyle().Dim()
	errorStyle = canvasform.DefaultStyle().Foreground(canvasform.Red).Bold()
)

func runTerminal(ctx context.Context, def canvasform.Definition, logger zerolog.Logger) (map[string]string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("run needs an interactive terminal; try the render command")
	}
	screen, err := canvasform.NewScreen(os.Stdout, fd)
	if err != nil {
		return nil, err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	surface := canvasform.NewBufferSurface(screen.Buffer()).FrameStyle(frameStyle)
	var values map[string]string
	form, err := def.Build(surface,
		canvasform.WithLogger(logger),
		submitHandler(def, &values, cancel, func(msg string) {
			_, h := surface.Size()
			surface.ClearRect(canvasform.Rect{Y: h - 1, Width: screen.Size().Width, Height: 1})
			surface.TextStyle(errorStyle).DrawText(0, h-1, msg)
			surface.TextStyle(canvasform.DefaultStyle())
		}),
	)
	if err != nil {
		return nil, err
	}

	in, err := cancelreader.NewReader(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	defer in.Close()

	if err := screen.EnterRawMode(); err != nil {
		return nil, err
	}
	runErr := canvasform.RunTerminal(ctx, form, screen, in, def.Origin)
	if err := screen.ExitRawMode(); err != nil && runErr == nil {
		runErr = err
	}
	return values, runErr
}

func runTea(def canvasform.Definition, logger zerolog.Logger) (map[string]string, error) {
	surface := canvasform.NewBufferSurface(canvasform.NewBuffer(80, 22)).FrameStyle(frameStyle)
	var (
		values map[string]string
		prog   *tea.Program
		model  *teahost.Model
	)
	form, err := def.Build(surface,
		canvasform.WithLogger(logger),
		submitHandler(def, &values,
			func() { go prog.Quit() },
			func(msg string) { model.SetStatus(msg) },
		),
	)
	if err != nil {
		return nil, err
	}

	model = teahost.New(form, surface, def.Origin).Title("canvasform - click a field, Tab to move, Enter to submit")
	prog = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := prog.Run(); err != nil {
		return nil, err
	}
	return values, nil
}

// writeValues prints the submitted values as YAML in field order.
func writeValues(w io.Writer, def canvasform.Definition, values map[string]string) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, fd := range def.Fields {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: fd.Label},
			&yaml.Node{Kind: yaml.ScalarNode, Value: values[fd.Label], Style: yaml.DoubleQuotedStyle},
		)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
