package main

import (
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Verdict/internal/config"
	"github.com/MikeSquared-Agency/Verdict/internal/evaluation"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config
	svc *evaluation.Service
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "verdict-cli",
		Short: "Verdict - AHP weights, rankings and profile scoring",
		Long: `Verdict derives priority weights from pairwise comparison matrices,
checks their consistency, ranks alternatives through an AHP hierarchy and
scores candidates against a profile.

Project files are the JSON documents the server exports.`,
		Version:      version,
		SilenceUsage: true,
	}

	configPath := cmd.PersistentFlags().String("config", "", "Path to a config file")
	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		if *debugLogging {
			cfg.Logging.Level = "debug"
		}
		// Results go to stdout, so logs stay on stderr.
		logger := cfg.NewLoggerTo(cmd.ErrOrStderr())
		a.cfg = cfg
		a.svc = evaluation.New(nil, nil, cfg, logger)
		logger.Debug("config loaded", "config", *configPath,
			"method", a.svc.Method(), "consistency_threshold", a.svc.Threshold())
		return nil
	}

	cmd.AddCommand(newAHPCommand(a))
	cmd.AddCommand(newProfileCommand())
	cmd.AddCommand(newScaleCommand())

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}
