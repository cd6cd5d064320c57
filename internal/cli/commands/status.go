package commands

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/router"
	"context"
	"fmt"
	"time"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show whether the vault is unlocked" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	rep, err := send(ctx, cfg, router.StatusRequest{})
	if err != nil {
		return err
	}
	state := "locked"
	if rep.Unlocked {
		state = "unlocked"
	}
	fmt.Fprintln(Out, "Status:", state)
	if rep.AutolockMs > 0 {
		fmt.Fprintln(Out, "Autolock:", time.Duration(rep.AutolockMs)*time.Millisecond)
	}
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
