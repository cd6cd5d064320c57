package commands

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/generator"
	"VaultKeeper/internal/model"
	"VaultKeeper/internal/router"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

type listCmd struct{}

func (listCmd) Name() string        { return "list" }
func (listCmd) Description() string { return "List all credentials (without passwords)" }
func (listCmd) Usage() string       { return "list" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	rep, err := send(ctx, cfg, router.ListCredentialsRequest{})
	if err != nil {
		return err
	}
	if len(rep.Credentials) == 0 {
		fmt.Fprintln(Out, "No credentials")
		return nil
	}
	for _, c := range rep.Credentials {
		fmt.Fprintf(Out, "%-36s  %-24s  %s\n", c.ID, c.Username, strings.Join(c.Origins, ","))
	}
	return nil
}

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Show credentials for an origin" }
func (getCmd) Usage() string       { return "get <origin>" }

func (getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	rep, err := send(ctx, cfg, router.GetCredentialsForOriginRequest{Origin: args[0]})
	if err != nil {
		return err
	}
	if len(rep.Credentials) == 0 {
		fmt.Fprintf(Out, "No credentials for %s\n", args[0])
		return nil
	}
	for i, c := range rep.Credentials {
		if i > 0 {
			fmt.Fprintln(Out)
		}
		fmt.Fprintf(Out, "id:        %s\n", c.ID)
		fmt.Fprintf(Out, "origins:   %s\n", strings.Join(c.Origins, ", "))
		fmt.Fprintf(Out, "username:  %s\n", c.Username)
		fmt.Fprintf(Out, "password:  %s\n", c.Password)
		if c.Notes != "" {
			fmt.Fprintf(Out, "notes:     %s\n", c.Notes)
		}
	}
	return nil
}

// originsFlag — повторяемый флаг -origin.
type originsFlag []string

func (o *originsFlag) String() string { return strings.Join(*o, ",") }
func (o *originsFlag) Set(v string) error {
	if v == "" {
		return fmt.Errorf("empty origin")
	}
	*o = append(*o, v)
	return nil
}

type saveCmd struct{}

func (saveCmd) Name() string        { return "save" }
func (saveCmd) Description() string { return "Add or replace a credential" }
func (saveCmd) Usage() string {
	return "save -origin <url> [-origin <url>...] -username <name> [-id <id>] [-notes <text>] [-generate]"
}

func (saveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		c        model.Credential
		origins  originsFlag
		generate bool
	)
	fs.StringVar(&c.ID, "id", "", "credential id (replace in place)")
	fs.Var(&origins, "origin", "origin the credential belongs to")
	fs.StringVar(&c.Username, "username", "", "username")
	fs.StringVar(&c.Notes, "notes", "", "free-form notes")
	fs.BoolVar(&generate, "generate", false, "generate a random password")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || len(origins) == 0 {
		return ErrUsage
	}
	c.Origins = origins

	if generate {
		rep, err := send(ctx, cfg, router.GeneratePasswordRequest{})
		if err != nil {
			return err
		}
		c.Password = rep.Password
	} else {
		pw, err := ReadPassword("Password: ")
		if err != nil {
			return err
		}
		c.Password = pw
	}

	rep, err := send(ctx, cfg, router.SaveCredentialRequest{Credential: c})
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Saved:", rep.ID)
	if generate {
		fmt.Fprintln(Out, "Password:", c.Password)
	}
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete a credential by id" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	if _, err := send(ctx, cfg, router.DeleteCredentialRequest{ID: args[0]}); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Deleted:", args[0])
	return nil
}

type generateCmd struct{}

func (generateCmd) Name() string        { return "generate" }
func (generateCmd) Description() string { return "Generate a random password" }
func (generateCmd) Usage() string       { return "generate [-length <n>] [-no-symbols]" }

func (generateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	length := fs.Int("length", generator.DefaultLength, "password length (8..128)")
	noSymbols := fs.Bool("no-symbols", false, "exclude symbols")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	opts := generator.Options{Length: *length}
	if *noSymbols {
		off := false
		opts.Symbols = &off
	}
	rep, err := send(ctx, cfg, router.GeneratePasswordRequest{Options: opts})
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, rep.Password)
	return nil
}

func init() {
	RegisterCmd(listCmd{})
	RegisterCmd(getCmd{})
	RegisterCmd(saveCmd{})
	RegisterCmd(deleteCmd{})
	RegisterCmd(generateCmd{})
}
