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
	authorized(ctx context.Context) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Upload(ctx context.Context, path string) error
	GitHub(ctx context.Context, repoURL string) error
	Docs(ctx context.Context, args []string) error
	Doc(ctx context.Context, id string) error
	Projects(ctx context.Context, args []string) error
	Mine(ctx context.Context) error
	Project(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) error
	Summarize(ctx context.Context, path string) error
}

const (
	helpGuest = "Available commands: register, login, help, exit"
	helpUser  = "Available commands: whoami, upload <zip>, github <url>, docs [skip= limit=], doc <id>, " +
		"projects [language= sort=newest|oldest search= skip= limit=], mine, project <id>, delete <id>, " +
		"download <id>, summarize <file>, logout, help, exit"
)

// protected lists the commands that run only for an authenticated session.
var protected = map[string]bool{
	"whoami": true, "upload": true, "github": true, "docs": true, "doc": true,
	"projects": true, "mine": true, "project": true, "delete": true,
	"download": true, "summarize": true,
}

// argCommands need exactly one positional argument.
var argCommands = map[string]string{
	"upload":    "Usage: upload <path/to/project.zip>",
	"github":    "Usage: github <https://github.com/owner/repo>",
	"doc":       "Usage: doc <id>",
	"project":   "Usage: project <id>",
	"delete":    "Usage: delete <id>",
	"download":  "Usage: download <id>",
	"summarize": "Usage: summarize <path/to/file>",
}

// runREPL starts a simple read–eval–print loop for the docsmith CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands in protected go through the session
// guard first. The loop exits on EOF or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("docsmith (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if usage, ok := argCommands[cmd]; ok && len(args) != 1 {
			printlnFn(usage)
			continue
		}
		if protected[cmd] && !a.authorized(ctx) {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "upload":
			_ = a.Upload(ctx, args[0])

		case "github":
			_ = a.GitHub(ctx, args[0])

		case "docs":
			_ = a.Docs(ctx, args)

		case "doc":
			_ = a.Doc(ctx, args[0])

		case "projects":
			_ = a.Projects(ctx, args)

		case "mine":
			_ = a.Mine(ctx)

		case "project":
			_ = a.Project(ctx, args[0])

		case "delete":
			_ = a.Delete(ctx, args[0])

		case "download":
			_ = a.Download(ctx, args[0])

		case "summarize":
			_ = a.Summarize(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
