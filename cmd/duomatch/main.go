// Command duomatch はダブルデート向けディスカバリーAPIを起動する。
//
// 使い方:
//
//	duomatch [serve|migrate|healthcheck]
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hitoshi/duomatch/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Stdout, os.Args[1:]); err != nil {
		slog.Error("application exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
