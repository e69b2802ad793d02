package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"snake-game/training"

	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the agent by playing games",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Run.LogLevel)
			if err != nil {
				return err
			}
			// keep log lines off the live progress block
			log.SetOutput(cmd.ErrOrStderr())

			writer := uilive.New()
			writer.Out = cmd.OutOrStdout()
			writer.Start()
			defer writer.Stop()

			manager, err := training.NewManager(cfg, log, writer)
			if err != nil {
				return err
			}

			if cfg.Run.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", manager.Recorder().Handler())
				srv := &http.Server{Addr: cfg.Run.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.WithError(err).Error("metrics server stopped")
					}
				}()
				defer srv.Close()
				log.WithField("addr", cfg.Run.MetricsAddr).Info("serving metrics")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if err := manager.Run(ctx); err != nil {
				return errors.Wrap(err, "training failed")
			}
			log.WithField("dir", manager.RunDir()).Info("results saved")
			return nil
		},
	}
	return cmd
}

// ConfigCommand prints the effective configuration as YAML.
func ConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config [output]",
		Short: "Write the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return cfg.Save(args[0])
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
