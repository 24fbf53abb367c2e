// Package cli is the interactive fanbox command-line client.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/fanbox/internal/client/client"
	"github.com/dmitrijs2005/fanbox/internal/client/config"
)

// Service is the part of the API client the CLI uses.
type Service interface {
	Register(ctx context.Context, email, username string, password []byte, streamer bool) error
	Login(ctx context.Context, email string, password []byte) error
	Logout()
	Me(ctx context.Context) (*client.Profile, error)
	Send(ctx context.Context, to, body string) error
	Inbox(ctx context.Context) ([]client.Message, error)
	Close() error
}

type App struct {
	service  Service
	timeout  time.Duration
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return newApp(apiClient, c.RequestTimeout, os.Stdin, os.Stdout), nil
}

func newApp(s Service, timeout time.Duration, in io.Reader, out io.Writer) *App {
	return &App{service: s, timeout: timeout, reader: bufio.NewReader(in), out: out}
}

func (a *App) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// Run executes a single command given in args, or starts the REPL when args
// is empty.
func (a *App) Run(ctx context.Context, args []string) {
	defer a.service.Close()

	if len(args) > 0 {
		a.dispatch(ctx, args[0], args[1:])
		return
	}
	a.Root(ctx)
}
