package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// dispatch runs one command and reports whether the REPL should stop.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		if a.userName != "" {
			fmt.Fprintln(a.out, "Available commands: me, send, inbox, logout, exit")
		} else {
			fmt.Fprintln(a.out, "Available commands: register, login, exit")
		}
	case "register":
		a.Register(ctx)
	case "login":
		a.Login(ctx)
	case "logout":
		a.Logout()
	case "me":
		a.me(ctx)
	case "send":
		a.send(ctx)
	case "inbox":
		a.inbox(ctx)
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
	return false
}

// Root runs the read-eval loop until exit or end of input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to fanbox CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "fanbox %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) > 0 && a.dispatch(ctx, parts[0], parts[1:]) {
			return
		}
		if err != nil {
			return
		}
	}
}
