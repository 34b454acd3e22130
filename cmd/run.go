// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/snapbuy/internal/browser"
	"github.com/xkilldash9x/snapbuy/internal/buyer"
	"github.com/xkilldash9x/snapbuy/internal/config"
	"github.com/xkilldash9x/snapbuy/internal/metrics"
	"github.com/xkilldash9x/snapbuy/internal/observability"
	"github.com/xkilldash9x/snapbuy/internal/status"
	"github.com/xkilldash9x/snapbuy/internal/tui"
)

// pageSession is the browser tab the controller drives.
type pageSession interface {
	buyer.Page
	Navigate(ctx context.Context, url string) error
	Close() error
}

// Seams for tests.
var (
	openSession = func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (pageSession, error) {
		return browser.NewSession(ctx, cfg, logger)
	}
	runPanel = func(ctx context.Context, ctrl tui.Controller, panel *status.Panel) error {
		return tui.Run(ctx, ctrl, panel)
	}
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Open the sale page and start watching it",
		Long: `Opens the sale page in Chromium and polls it. The trigger control is clicked as soon
as its label is actionable; the order dialog is confirmed on its own cadence. When the
item sells out the run stops for good, but the browser stays open until you exit so a
pending order can still be paid.`,
		Example: `  snapbuy run https://shop.example.com/flash --user-data-dir ~/.config/snapbuy/profile
  snapbuy run --no-tui --scan-interval 20 --confirm-interval 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.SetBuyerTargetURL(args[0])
			}
			if cfg.Buyer().TargetURL == "" {
				return fmt.Errorf("no target URL: pass it as an argument or set buyer.target_url")
			}
			return runBuyer(cmd.Context(), cfg, observability.GetLogger())
		},
	}

	defaults := config.NewDefaultConfig()
	runCmd.Flags().Int("scan-interval", defaults.Buyer().ScanIntervalMs, "trigger polling interval in ms (10-1000)")
	runCmd.Flags().Int("confirm-interval", defaults.Buyer().ConfirmIntervalMs, "confirm polling interval in ms (10-1000)")
	runCmd.Flags().Bool("headless", defaults.Browser().Headless, "run Chromium without a window")
	runCmd.Flags().String("user-data-dir", "", "Chrome profile directory, reused for an existing login")
	runCmd.Flags().Bool("no-tui", false, "log status lines instead of showing the status panel")
	runCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address")
	return runCmd
}

// runBuyer wires the browser, controller and status sinks together and blocks
// until ctx is canceled or the operator quits the panel.
func runBuyer(ctx context.Context, cfg config.Interface, logger *zap.Logger) error {
	iv, err := buyer.NewIntervals(cfg.Buyer().ScanIntervalMs, cfg.Buyer().ConfirmIntervalMs)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	panel := status.NewPanel()
	reporters := []buyer.Reporter{status.NewLogReporter(logger, status.DefaultRepeatInterval), panel}

	var metricsSrv *metrics.Server
	if cfg.Metrics().Enabled {
		rec := metrics.NewRecorder()
		reporters = append(reporters, rec)
		// Bind before launching the browser so a busy port fails fast.
		metricsSrv, err = metrics.Listen(cfg.Metrics().Addr, cfg.Metrics().Path, rec.Handler(), logger)
		if err != nil {
			return err
		}
	}

	session, err := openSession(runCtx, cfg.Browser(), logger)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Failed to close browser cleanly.", zap.Error(err))
		}
	}()

	if err := session.Navigate(runCtx, cfg.Buyer().TargetURL); err != nil {
		return err
	}

	ctrl := buyer.NewController(runCtx, session, status.NewFanout(reporters...), logger,
		buyer.WithIntervals(iv),
		buyer.WithTickTimeout(cfg.Buyer().TickTimeout),
	)
	defer ctrl.Shutdown()

	// Without the panel there is no other way to start.
	if cfg.Buyer().AutoStart || !cfg.UI().TUI {
		ctrl.Start()
	}

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		select {
		case <-ctrl.Done():
			logger.Info("Controller stopped; the browser stays open until exit.", zap.String("run_id", ctrl.RunID()))
			<-gctx.Done()
		case <-gctx.Done():
		}
		return nil
	})

	if hb := cfg.Buyer().Heartbeat; hb > 0 {
		g.Go(func() error {
			heartbeat(gctx, ctrl, hb, logger)
			return nil
		})
	}

	if metricsSrv != nil {
		g.Go(func() error { return metricsSrv.Serve(gctx) })
	}

	if cfg.UI().TUI {
		g.Go(func() error {
			// Quitting the panel ends the run.
			defer cancel()
			return runPanel(gctx, ctrl, panel)
		})
	}

	err = g.Wait()
	logger.Info("Run finished.", zap.String("run_id", ctrl.RunID()), zap.Stringer("state", ctrl.Snapshot().State))
	return err
}

// heartbeat logs the controller snapshot every interval until ctx ends.
func heartbeat(ctx context.Context, ctrl *buyer.Controller, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := ctrl.Snapshot()
			logger.Debug("Heartbeat.",
				zap.String("run_id", snap.RunID),
				zap.Stringer("state", snap.State),
				zap.Bool("purchasing", snap.Purchasing),
				zap.Bool("scan_armed", snap.ScanArmed),
				zap.Bool("confirm_armed", snap.ConfirmArmed),
				zap.Bool("control_disabled", snap.ControlDisabled),
				zap.Stringer("intervals", snap.Intervals),
			)
		}
	}
}
