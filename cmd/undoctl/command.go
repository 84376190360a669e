package main

import (
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/script"
)

// command is one parsed input line.
type command struct {
	action history.Action
	show   bool
	quit   bool
}

// parseCommand maps a line onto an action using the configured kinds.
func parseCommand(line string, kinds *history.Config[lua.LValue]) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	name, args := fields[0], fields[1:]

	index := func() (int, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%s takes one integer argument", name)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("%s: invalid index %q", name, args[0])
		}
		return n, nil
	}

	switch strings.ToLower(name) {
	case "quit", "exit":
		return command{quit: true}, nil
	case "show":
		return command{show: true}, nil
	case "undo":
		return command{action: history.Named(kinds.UndoType)}, nil
	case "redo":
		return command{action: history.Named(kinds.RedoType)}, nil
	case "clear":
		return command{action: history.Named(kinds.ClearHistoryType)}, nil
	case "jump":
		n, err := index()
		if err != nil {
			return command{}, err
		}
		return command{action: history.WithIndex(kinds.JumpType, n)}, nil
	case "past":
		n, err := index()
		if err != nil {
			return command{}, err
		}
		return command{action: history.WithIndex(kinds.JumpToPastType, n)}, nil
	case "future":
		n, err := index()
		if err != nil {
			return command{}, err
		}
		return command{action: history.WithIndex(kinds.JumpToFutureType, n)}, nil
	default:
		return command{action: script.Call{Type: name, Args: args}}, nil
	}
}
