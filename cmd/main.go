package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xlemi/bassnote/internal/audio"
	"github.com/0xlemi/bassnote/internal/config"
	"github.com/0xlemi/bassnote/internal/pitch"
	"github.com/0xlemi/bassnote/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the state shared by all subcommands
type app struct {
	cfg config.Config
	log *logrus.Logger
	tui bool
}

func newRootCmd() *cobra.Command {
	a := &app{
		cfg: config.Load(),
		log: logrus.New(),
	}
	a.log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:           "bassnote",
		Short:         "Detect bass root note switches in a recording",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			level, _ := logrus.ParseLevel(a.cfg.LogLevel)
			a.log.SetLevel(level)
			return nil
		},
	}

	a.cfg.BindFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&a.tui, "tui", false, "browse the results in an interactive view")

	root.AddCommand(newAnalyzeCmd(a), newRecordCmd(a))
	return root
}

// detect runs the switch detector over a whole buffer.
func (a *app) detect(ctx context.Context, buffer *audio.AudioBuffer) (*pitch.Result, error) {
	detector, err := pitch.NewSwitchDetector(a.cfg.DetectorOptions(a.log))
	if err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"sample_rate": buffer.SampleRate,
		"samples":     len(buffer.Samples),
		"window":      a.cfg.WindowSize,
		"hop":         a.cfg.HopSize(),
		"cutoff":      a.cfg.BassCutoff,
		"debounce":    a.cfg.DebounceFrames,
		"workers":     a.cfg.Workers,
	}).Info("Analyzing audio")

	return detector.DetectSwitches(ctx, buffer)
}

// report renders the result in the configured format.
func (a *app) report(w io.Writer, source string, buffer *audio.AudioBuffer, result *pitch.Result) error {
	if a.tui {
		p := tea.NewProgram(ui.NewModel(source, buffer.Duration(), result), tea.WithAltScreen())
		_, err := p.Run()
		return err
	}

	if a.cfg.Format == config.FormatJSON {
		return ui.WriteJSON(w, source, result)
	}

	styled := false
	if f, ok := w.(*os.File); ok {
		styled = ui.IsTerminal(f)
	}
	return ui.WriteText(w, result.Events, styled)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		logrus.WithError(err).Fatal("bassnote failed")
	}
}
