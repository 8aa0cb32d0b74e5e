package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL drives. App implements it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads one command per line and dispatches it. It returns on EOF,
// on "exit"/"quit", or when ctx is done.
//
//	Onboarding:
//	  help, register, login, forgot, exit | quit
//
//	Home:
//	  help, profile, edit, logout, exit | quit
//
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "matrimo %s> ", statusFn())
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		var cmdErr error
		switch {
		case cmd == "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: profile, edit, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, forgot, exit")
			}

		case cmd == "exit" || cmd == "quit":
			fmt.Fprintln(out, "Bye!")
			return

		case !a.isLoggedIn() && cmd == "register":
			cmdErr = a.Register(ctx)
		case !a.isLoggedIn() && cmd == "login":
			cmdErr = a.Login(ctx)
		case !a.isLoggedIn() && cmd == "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case a.isLoggedIn() && cmd == "profile":
			cmdErr = a.Profile(ctx)
		case a.isLoggedIn() && cmd == "edit":
			cmdErr = a.EditProfile(ctx)
		case a.isLoggedIn() && cmd == "logout":
			cmdErr = a.Logout(ctx)

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
