package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/issueops/taskbridge/bridge"
	"github.com/issueops/taskbridge/config"
	"github.com/issueops/taskbridge/telemetry"
)

func runDispatch(ctx context.Context, v *viper.Viper) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, shutting down...")
		cancel()
	}()

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	tcfg := telemetry.ProviderConfig{
		ServiceName:    "taskbridge",
		ServiceVersion: version,
	}
	if telemetry.Enabled(tcfg) {
		provider, err := telemetry.InitProvider(ctx, tcfg)
		if err != nil {
			return err
		}
		defer func() {
			// The run context may already be canceled here.
			flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer flushCancel()
			_ = provider.Shutdown(flushCtx)
		}()
	}

	deps, err := bridge.NewDeps(cfg)
	if err != nil {
		return err
	}
	defer deps.Events.Close()

	out, err := bridge.Run(ctx, cfg, deps)
	if err != nil {
		return err
	}

	if err := out.Emit(); err != nil {
		return err
	}
	printSummary(out)
	return nil
}

func printSummary(out *config.Outputs) {
	verb := "Reused"
	if out.Created {
		verb = "Created"
	}
	fmt.Printf("%s %s task %s for %s\n  %s\n",
		color.GreenString("✓"), verb, out.TaskName, out.Username, color.CyanString(out.TaskURL))
}
