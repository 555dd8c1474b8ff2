package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sauc-client-go/asr"
	"sauc-client-go/internal/platform/config"
	"sauc-client-go/internal/platform/logging"
)

var rootCmd = &cobra.Command{
	Use:          "sauc-cli",
	Short:        "Client for the Volcengine big-model streaming speech recognition service",
	SilenceUsage: true,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file.pcm]",
	Short: "Transcribe a raw PCM audio file (16kHz, 16-bit, mono)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		simple, _ := cmd.Flags().GetBool("simple")
		chunkMS, _ := cmd.Flags().GetInt("chunk-ms")
		partials, _ := cmd.Flags().GetBool("partials")

		cfg, logger, err := setup(configPath)
		if err != nil {
			return err
		}
		defer logger.Close()

		audio, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read audio file: %w", err)
		}
		logger.InfoTag("CLI", "transcribing %s (%d bytes)", args[0], len(audio))

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		recognizer := asr.New(cfg, logger)
		if simple {
			return runSimple(ctx, recognizer, audio)
		}
		return runStreaming(ctx, recognizer, audio, chunkMS, partials)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print service endpoints and the expected audio format",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		// Introspection needs no credentials, so a failed load falls back
		// to defaults instead of aborting.
		cfg, err := config.NewLoader(configPath).Load()
		if err != nil {
			cfg = config.Default()
		}
		recognizer := asr.New(cfg, logging.Discard())

		svc := recognizer.ServiceInfo()
		fmt.Printf("Service:  %s (%s)\n", svc.Name, svc.Version)
		fmt.Printf("Variant:  %s\n", svc.CurrentVariant)
		fmt.Println("Endpoints:")
		for _, mode := range svc.Modes {
			fmt.Printf("  %-16s %s\n", mode, svc.Endpoints[mode])
		}

		audio := recognizer.AudioFormatInfo()
		fmt.Println("Audio format:")
		fmt.Printf("  %s/%s, %d Hz, %d-bit, %d channel(s), chunks of %s ms\n",
			audio.Format, audio.Codec, audio.SampleRate, audio.BitDepth,
			audio.Channels, audio.ChunkSizeMS)
		return nil
	},
}

func setup(configPath string) (*config.Config, *logging.Logger, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Log.Level,
		Dir:      cfg.Log.Dir,
		Filename: cfg.Log.File,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runSimple(ctx context.Context, recognizer *asr.Recognizer, audio []byte) error {
	result, err := recognizer.RecognizeSimple(ctx, audio, asr.DefaultRecognitionConfig())
	if err != nil {
		return err
	}
	fmt.Println(result.Text)
	return nil
}

func runStreaming(ctx context.Context, recognizer *asr.Recognizer, audio []byte, chunkMS int, partials bool) error {
	// 16kHz mono 16-bit PCM: 32 bytes per millisecond.
	chunkSize := chunkMS * 32
	if chunkSize <= 0 {
		chunkSize = 3200
	}

	chunks := make(chan []byte)
	stream := recognizer.RecognizeStream(ctx, chunks, asr.DefaultRecognitionConfig())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(chunks)
		for offset := 0; offset < len(audio); offset += chunkSize {
			end := offset + chunkSize
			if end > len(audio) {
				end = len(audio)
			}
			select {
			case chunks <- audio[offset:end]:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		for result := range stream.Results() {
			if result.IsFinal {
				fmt.Println(result.Text)
			} else if partials {
				fmt.Printf("... %s\n", result.Text)
			}
		}
		return stream.Err()
	})

	return g.Wait()
}

func init() {
	transcribeCmd.Flags().String("config", "", "Path to YAML config file (credentials also read from env)")
	transcribeCmd.Flags().Bool("simple", false, "One-shot recognition against the streaming-input endpoint")
	transcribeCmd.Flags().Int("chunk-ms", 100, "Audio chunk duration in milliseconds")
	transcribeCmd.Flags().Bool("partials", false, "Print intermediate results as they arrive")

	infoCmd.Flags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(transcribeCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "sauc-cli failed: %v\n", err)
		os.Exit(1)
	}
}
