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

// command is one REPL verb. Guest commands are listed in help before
// login, member commands after; shared ones always.
type command struct {
	name    string
	aliases []string
	usage   string
	access  access
	run     func(ctx context.Context, args []string) error
}

type access int

const (
	accessAny access = iota
	accessGuest
	accessMember
)

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
	// fail reports a command error to the user.
	fail(err error)
}

// runREPL starts a simple read–eval–print loop for the CompareHub CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches through the command table. Unknown commands are reported back
// to the user. The loop exits on EOF, when ctx is done (also while waiting
// for input), or when the user types "exit" or "quit".
//
// Errors returned by command handlers go to a.fail; the loop keeps running.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	table := map[string]command{}
	for _, c := range a.commands() {
		table[c.name] = c
		for _, alias := range c.aliases {
			table[alias] = c
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("ch %s> ", statusFn()))
		line, err := readLineContext(ctx, reader)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("error:", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText(a.commands(), a.isLoggedIn()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := table[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if err := c.run(ctx, args); err != nil {
			a.fail(err)
		}
	}
}

func helpText(cmds []command, loggedIn bool) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range cmds {
		if (c.access == accessGuest && loggedIn) || (c.access == accessMember && !loggedIn) {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", c.usage)
	}
	b.WriteString("  help\n  exit")
	return b.String()
}

type lineResult struct {
	line string
	err  error
}

// readLineContext reads one line from reader and gives up when ctx is done.
// The read itself cannot be interrupted; an abandoned read finishes on the
// next line or EOF and its result is dropped. At most one read is in flight.
func readLineContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	ch := make(chan lineResult, 1)
	go func() {
		line, err := readLine(reader)
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case r := <-ch:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
