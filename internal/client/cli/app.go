package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophid/internal/client/client"
	"github.com/dmitrijs2005/gophid/internal/client/config"
	"github.com/dmitrijs2005/gophid/internal/common"
)

// API is the part of the server API the CLI uses.
type API interface {
	Register(ctx context.Context, email, firstName, lastName, password string) (*client.AuthResult, error)
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Profile(ctx context.Context, token string) (map[string]any, error)
	Ping(ctx context.Context) error
}

type App struct {
	config *config.Config
	api    API
	ask    prompter
	out    io.Writer
}

func NewApp(c *config.Config, api API) *App {
	return &App{
		config: c,
		api:    api,
		ask:    prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout},
		out:    os.Stdout,
	}
}

var errUsage = errors.New("usage: gophid-client [-a addr] [-t token] [-timeout sec] <register|login|profile|ping>")

// Run executes one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.out, errUsage)
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()

	var err error
	switch args[0] {
	case "register":
		err = a.register(ctx)
	case "login":
		err = a.login(ctx)
	case "profile":
		err = a.profile(ctx)
	case "ping":
		err = a.ping(ctx)
	case "help":
		fmt.Fprintln(a.out, errUsage)
		return 0
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n%v\n", args[0], errUsage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) register(ctx context.Context) error {
	form, err := a.ask.signUp()
	if err != nil {
		return err
	}
	password, err := a.ask.password()
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	res, err := a.api.Register(ctx, form.Email, form.FirstName, form.LastName, string(password))
	if err != nil {
		return err
	}
	return a.printAuth(res)
}

func (a *App) login(ctx context.Context) error {
	email, err := a.ask.line("Email")
	if err != nil {
		return err
	}
	password, err := a.ask.password()
	if err != nil {
		return err
	}
	defer common.Wipe(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	return a.printAuth(res)
}

func (a *App) profile(ctx context.Context) error {
	if a.config.Token == "" {
		return errors.New("no token: pass -t or set GOPHID_TOKEN")
	}
	account, err := a.api.Profile(ctx, a.config.Token)
	if err != nil {
		return err
	}
	return a.printJSON(account)
}

func (a *App) ping(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *App) printAuth(res *client.AuthResult) error {
	fmt.Fprintln(a.out, "Success!")
	fmt.Fprintf(a.out, "Token: %s\n", res.AccessToken)
	return a.printJSON(res.Account)
}

func (a *App) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
