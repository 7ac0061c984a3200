// Command megacd reads Mega-CD disc images.
package main

import (
	"fmt"
	"os"

	"github.com/rabidaudio/megacd/cdreader"
	"github.com/rabidaudio/megacd/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg := config.Load()
	log := logrus.New()
	log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:          "megacd",
		Short:        "Read Mega-CD disc images (CUE/BIN, BIN, ISO)",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.SetLevel(cfg.Level())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (MEGACD_LOG_LEVEL)")

	root.AddCommand(
		infoCmd(log),
		sectorCmd(log),
		playCmd(&cfg, log),
		exportCmd(log),
	)
	return root
}

// openReader opens the image at path in a new reader.
func openReader(path string, log logrus.FieldLogger) (*cdreader.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := &cdreader.Reader{Logger: log}
	if err := r.Open(f, path); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
