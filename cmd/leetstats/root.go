package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/leetstats/internal/app"
	"github.com/JakeFAU/leetstats/internal/config"
	"github.com/JakeFAU/leetstats/internal/id/uuid"
	"github.com/JakeFAU/leetstats/internal/logging"
	"github.com/JakeFAU/leetstats/internal/metrics"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// session holds what PersistentPreRunE builds; execute tears it down after
// the command returns, successful or not.
type session struct {
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger
	app     *app.App
	gcs     app.GCSClientFactory
}

func newRootCmd(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leetstats",
		Short: "Tracks acceptance statistics for a LeetCode problem.",
		Long: `leetstats keeps a JSON history of a LeetCode problem's accepted and
submitted counts. "harvest" rebuilds the history from Wayback Machine
captures; "fetch" adds today's numbers from the live GraphQL API.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(rt.cfgFile)
			if err != nil {
				return err
			}
			logger, err := logging.NewWithLevel(cfg.Logging.Development, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			runID, err := uuid.New().NewID()
			if err != nil {
				return err
			}
			logger = logger.With(zap.String("run_id", runID), zap.String("command", cmd.Name()))
			rt.cfg = cfg
			rt.logger = logger

			appInstance, err := app.NewApp(cmd.Context(), cfg, logger, rt.gcs)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			rt.app = appInstance
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&rt.cfgFile, "config", "", "config file (YAML, JSON or TOML)")

	cmd.AddCommand(newHarvestCmd())
	cmd.AddCommand(newFetchCmd())

	return cmd
}

// Execute runs the CLI with args and returns the first fatal error.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, &session{})
}

func execute(ctx context.Context, args []string, rt *session) error {
	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	if rt.logger != nil {
		if err != nil {
			rt.logger.Error("command failed", zap.Error(err))
		}
		if werr := metrics.WriteTextfile(rt.cfg.Metrics.Textfile); werr != nil {
			rt.logger.Warn("write metrics textfile", zap.Error(werr))
		}
	}
	if rt.app != nil {
		rt.app.Close()
	}
	return err
}

func resolveApp(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
