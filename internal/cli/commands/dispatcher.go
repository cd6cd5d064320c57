package commands

import (
	"VaultKeeper/internal/cli/api"
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/router"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Коды выхода CLI. Скрипты различают по ним заблокированное хранилище и неверный пароль.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsage          = 2
	ExitLocked         = 3
	ExitInvalidPass    = 4
	ExitDaemonRejected = 5
	ExitInterrupted    = 130
)

// Dispatch выполняет команду из args и возвращает код выхода процесса.
func Dispatch(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitUsage
	}

	name := strings.ToLower(args[0])
	switch name {
	case "help", "-h", "--help":
		return help(args[1:])
	}

	c, ok := Get(name)
	if !ok {
		unknown(name)
		return ExitUsage
	}
	return report(ctx, c, c.Run(ctx, cfg, args[1:]))
}

// help печатает общую справку или usage одной команды: vkcli help [command].
func help(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return ExitOK
	}
	c, ok := Get(strings.ToLower(args[0]))
	if !ok {
		unknown(args[0])
		return ExitUsage
	}
	fmt.Fprintf(Out, "Usage: %s\n  %s\n", c.Usage(), c.Description())
	return ExitOK
}

func unknown(name string) {
	fmt.Fprintf(Out, "Unknown command: %s\n", name)
	var similar []string
	for _, c := range List() {
		if strings.HasPrefix(c.Name(), name) {
			similar = append(similar, c.Name())
		}
	}
	if len(similar) > 0 {
		fmt.Fprintf(Out, "Did you mean: %s?\n", strings.Join(similar, ", "))
	}
	fmt.Fprintln(Out)
	fmt.Fprint(Out, FormatGlobalUsage())
}

// report печатает результат команды и переводит ошибку в код выхода.
// Отказы демона печатаются по типу ошибки протокола.
func report(ctx context.Context, c Command, err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return ExitUsage
	}
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		fmt.Fprintf(Out, "%s interrupted\n", c.Name())
		return ExitInterrupted
	}

	var re *api.ReplyError
	if !errors.As(err, &re) {
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return ExitFailure
	}
	switch re.Kind {
	case router.KindVaultLocked:
		fmt.Fprintf(Out, "%s: vault is locked, run \"vkcli unlock\" first\n", c.Name())
		return ExitLocked
	case router.KindInvalidPassword:
		fmt.Fprintf(Out, "%s: invalid master password\n", c.Name())
		return ExitInvalidPass
	default:
		fmt.Fprintf(Out, "%s rejected by daemon (%s): %s\n", c.Name(), re.Kind, re.Message)
		return ExitDaemonRejected
	}
}
