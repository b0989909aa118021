package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/tasklist/internal/common"
	"github.com/sahilm/fuzzy"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, path string, args []string) error
}

// commands maps REPL words to page paths.
var commands = map[string]string{
	"home":     common.PathHome,
	"login":    common.PathLogin,
	"register": common.PathRegister,
	"logout":   common.PathLogout,
	"tasks":    common.PathTasks,
	"list":     common.PathTasks,
	"l":        common.PathTasks,
	"view":     pathView,
	"toggle":   pathToggle,
	"share":    pathShare,
	"create":   pathCreate,
	"new":      pathCreate,
	"edit":     pathEdit,
}

var commandNames = func() []string {
	names := make([]string, 0, len(commands)+3)
	for name := range commands {
		names = append(names, name)
	}
	names = append(names, "help", "exit", "quit")
	sort.Strings(names)
	return names
}()

// suggest returns the closest known command to an unknown one, or "".
func suggest(cmd string) string {
	matches := fuzzy.Find(cmd, commandNames)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// runREPL starts a simple read–eval–print loop for the tasklist CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and opens the matching page with the remaining tokens as
// arguments. Unknown commands are reported back with a suggestion. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
//	Signed out:
//	  - help                 show available commands
//	  - register | login     account pages
//	  - exit | quit          leave the program
//
//	Signed in:
//	  - tasks | list | l     own and shared tasks
//	  - view <id>            task details and shares
//	  - toggle <id>          flip completion (owner)
//	  - share <id>           share with another user (owner)
//	  - create | new         new task
//	  - edit <id>            edit a task
//	  - logout               sign out
//
// Errors returned by pages are ignored here; pages report their own errors.
// This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tasks%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, view <id>, toggle <id>, share <id>, create, edit <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		path, ok := commands[cmd]
		if !ok {
			if s := suggest(cmd); s != "" {
				printlnFn(fmt.Sprintf("Unknown command: %s (did you mean %q?)", cmd, s))
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}
		_ = a.Open(ctx, path, args)
	}
}
