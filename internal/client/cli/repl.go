package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Activate(ctx context.Context) error
	ResendActivation(ctx context.Context) error
	Show(ctx context.Context, id string) error
	DeleteAccount(ctx context.Context) error
	Archive(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  help, me, show <id>, activate, resend, delete, archive, logout, exit | quit
//
// The loop exits on EOF or exit/quit. Handler errors are not fatal; handlers
// report them themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, show <id>, activate, resend, delete, archive, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "me", "logout", "activate", "resend", "delete", "archive", "show":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch cmd {
			case "me":
				_ = a.Show(ctx, "")
			case "show":
				if len(args) == 0 {
					printlnFn("Usage: show <id>")
					continue
				}
				_ = a.Show(ctx, args[0])
			case "activate":
				_ = a.Activate(ctx)
			case "resend":
				_ = a.ResendActivation(ctx)
			case "delete":
				_ = a.DeleteAccount(ctx)
			case "archive":
				_ = a.Archive(ctx)
			case "logout":
				_ = a.Logout(ctx)
			}

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
