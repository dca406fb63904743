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

// execIface is the command surface the REPL dispatches to. Every handler
// gets the words that followed the command.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Reactivate(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	ShowLists(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Task(ctx context.Context, args []string) error
	ShowNotes(ctx context.Context, args []string) error
	Note(ctx context.Context, args []string) error
	ShowHabits(ctx context.Context, args []string) error
	Habit(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
	Pomodoro(ctx context.Context, args []string) error
	Settings(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: signup, login, reactivate, status, exit"
	helpActive    = `Available commands:
  (l)ists                         show lists and tasks
  list add|rename|del ...         manage lists
  task add|edit|done|del|show ... manage tasks (refs look like 1.2)
  task sub|subdone|breakdown ...  manage subtasks
  notes, note add|edit|del|show|summarize ...
  habits, habit add|toggle|del ...
  calendar [YYYY-MM-DD]           tasks due on a day
  pomodoro start|pause|reset|skip|status
  settings [set <key> <value>]
  profile [name|picture <value>]
  status                          storage and account summary
  logout, exit`
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is cancelled.
// Handler errors are reported to the user and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("rerange %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpActive)
			} else {
				printlnFn(helpAnonymous)
			}

		case "signup", "register":
			cmdErr = a.Signup(ctx, args)

		case "login":
			cmdErr = a.Login(ctx, args)

		case "reactivate":
			cmdErr = a.Reactivate(ctx, args)

		case "logout":
			cmdErr = a.Logout(ctx, args)

		case "profile":
			cmdErr = a.Profile(ctx, args)

		case "l", "lists":
			cmdErr = a.ShowLists(ctx, args)

		case "list":
			cmdErr = a.List(ctx, args)

		case "task":
			cmdErr = a.Task(ctx, args)

		case "notes":
			cmdErr = a.ShowNotes(ctx, args)

		case "note":
			cmdErr = a.Note(ctx, args)

		case "habits":
			cmdErr = a.ShowHabits(ctx, args)

		case "habit":
			cmdErr = a.Habit(ctx, args)

		case "calendar", "cal":
			cmdErr = a.Calendar(ctx, args)

		case "pomodoro", "pomo":
			cmdErr = a.Pomodoro(ctx, args)

		case "settings":
			cmdErr = a.Settings(ctx, args)

		case "status":
			cmdErr = a.Status(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}
