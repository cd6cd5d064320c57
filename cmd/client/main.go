package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"VaultKeeper/internal/cli/commands"
	"VaultKeeper/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

// run разбирает конфигурацию, отдаёт аргументы диспетчеру и возвращает код выхода.
// Ctrl+C отменяет запрос к демону, но не блокирует хранилище.
func run() int {
	cfg := config.NewConfig()
	if cfg.Version {
		fmt.Printf("vkcli %s (built %s)\ndaemon: %s\n", version, buildDate, cfg.ServerURL)
		return commands.ExitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.Dispatch(ctx, cfg, flag.Args())
}
