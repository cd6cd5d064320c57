package commands

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/router"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

type unlockCmd struct{}

func (unlockCmd) Name() string { return "unlock" }
func (unlockCmd) Description() string {
	return "Unlock the vault (first unlock sets the master password)"
}
func (unlockCmd) Usage() string { return "unlock" }

func (unlockCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	pw, err := ReadPassword("Master password: ")
	if err != nil {
		return err
	}
	if pw == "" {
		return errors.New("empty master password")
	}
	if _, err := send(ctx, cfg, router.UnlockRequest{Password: pw}); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Vault unlocked")
	return nil
}

type lockCmd struct{}

func (lockCmd) Name() string        { return "lock" }
func (lockCmd) Description() string { return "Lock the vault now" }
func (lockCmd) Usage() string       { return "lock" }

func (lockCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if _, err := send(ctx, cfg, router.LockRequest{}); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Vault locked")
	return nil
}

type autolockCmd struct{}

func (autolockCmd) Name() string        { return "autolock" }
func (autolockCmd) Description() string { return "Set the inactivity timeout in minutes (min 1)" }
func (autolockCmd) Usage() string       { return "autolock <minutes>" }

func (autolockCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes < 1 {
		return ErrUsage
	}
	d := time.Duration(minutes) * time.Minute
	if _, err := send(ctx, cfg, router.SetAutolockRequest{DurationMs: d.Milliseconds()}); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Autolock set to", d)
	return nil
}

func init() {
	RegisterCmd(unlockCmd{})
	RegisterCmd(lockCmd{})
	RegisterCmd(autolockCmd{})
}
