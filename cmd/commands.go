package main

import (
	"context"
	"time"

	"github.com/0xlemi/bassnote/internal/audio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Capture settings
const (
	captureBufferSize = 4096
	captureChannels   = 1
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.wav>",
		Short: "Analyze a 16-bit mono PCM WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			buffer, err := audio.LoadWAV(path)
			if err != nil {
				return err
			}

			result, err := a.detect(cmd.Context(), buffer)
			if err != nil {
				return err
			}
			return a.report(cmd.OutOrStdout(), path, buffer, result)
		},
	}
}

func newRecordCmd(a *app) *cobra.Command {
	var (
		duration   time.Duration
		sampleRate int
		savePath   string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the default input device, then analyze the recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxSamples := int(duration.Seconds() * float64(sampleRate))
			capturer, err := audio.NewPortAudioCapturer(captureBufferSize, sampleRate, captureChannels, maxSamples)
			if err != nil {
				return err
			}

			a.log.WithFields(logrus.Fields{
				"duration":    duration,
				"sample_rate": sampleRate,
			}).Info("Recording, press Ctrl+C to stop early")

			buffer, err := audio.Record(capturer, duration, cmd.Context().Done())
			if err != nil {
				return err
			}

			if savePath != "" {
				if err := audio.SaveWAV(savePath, buffer); err != nil {
					return err
				}
				a.log.WithField("path", savePath).Info("Saved recording")
			}

			// The recording is complete, analysis must not see the interrupt
			result, err := a.detect(context.WithoutCancel(cmd.Context()), buffer)
			if err != nil {
				return err
			}
			return a.report(cmd.OutOrStdout(), "microphone", buffer, result)
		},
	}

	cmd.Flags().DurationVarP(&duration, "duration", "d", 10*time.Second, "recording length")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", 44100, "capture sample rate (Hz)")
	cmd.Flags().StringVar(&savePath, "save", "", "write the recording to this WAV file")
	return cmd
}
