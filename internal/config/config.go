package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/undoable/internal/history"
	"github.com/dshills/undoable/internal/logging"
)

// Settings is the decoded settings file.
type Settings struct {
	History HistorySettings `toml:"history"`
	Filters FilterSettings  `toml:"filters"`
	Script  ScriptSettings  `toml:"script"`
	Log     LogSettings     `toml:"log"`
}

// HistorySettings configures the history wrapper.
type HistorySettings struct {
	// Limit caps the number of past entries; 0 means unbounded.
	Limit int `toml:"limit"`

	UndoType         string `toml:"undo_type"`
	RedoType         string `toml:"redo_type"`
	JumpType         string `toml:"jump_type"`
	JumpToPastType   string `toml:"jump_to_past_type"`
	JumpToFutureType string `toml:"jump_to_future_type"`
	ClearHistoryType string `toml:"clear_history_type"`
}

// FilterSettings lists action kinds handled specially by the history.
type FilterSettings struct {
	// HistoryExclude kinds never produce a past entry.
	HistoryExclude []string `toml:"history_exclude"`
	// HistoryInclude, when non-empty, restricts past entries to these kinds.
	HistoryInclude []string `toml:"history_include"`
	// Coalesce kinds update present without opening a new undo step.
	Coalesce []string `toml:"coalesce"`
}

// ScriptSettings locates the Lua reducer.
type ScriptSettings struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `toml:"level"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{Level: "info"},
	}
}

// Load reads settings from path. A missing file is not an error.
// A relative script path is resolved against the settings file directory.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	s, err := parse(path, data)
	if err != nil {
		return Settings{}, err
	}
	if s.Script.Path != "" && !filepath.IsAbs(s.Script.Path) {
		s.Script.Path = filepath.Join(filepath.Dir(path), s.Script.Path)
	}
	return s, nil
}

// Parse decodes settings from TOML data.
func Parse(data []byte) (Settings, error) {
	return parse("<data>", data)
}

func parse(source string, data []byte) (Settings, error) {
	s := DefaultSettings()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		perr := &ParseError{Path: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return Settings{}, perr
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the history cannot honour.
func (s Settings) Validate() error {
	var problems []string

	if s.History.Limit < 0 {
		problems = append(problems, fmt.Sprintf("history.limit must not be negative, got %d", s.History.Limit))
	}

	// Compare the kinds the history will actually use, defaults included.
	seen := make(map[string]string)
	for _, k := range []struct{ key, kind, def string }{
		{"undo_type", s.History.UndoType, history.UndoType},
		{"redo_type", s.History.RedoType, history.RedoType},
		{"jump_to_past_type", s.History.JumpToPastType, history.JumpToPastType},
		{"jump_to_future_type", s.History.JumpToFutureType, history.JumpToFutureType},
		{"jump_type", s.History.JumpType, history.JumpType},
		{"clear_history_type", s.History.ClearHistoryType, history.ClearHistoryType},
	} {
		if k.kind == "" {
			k.kind = k.def
		}
		if prev, dup := seen[k.kind]; dup {
			problems = append(problems, fmt.Sprintf("history.%s duplicates history.%s (%q)", k.key, prev, k.kind))
			continue
		}
		seen[k.kind] = k.key
	}

	if len(s.Filters.HistoryInclude) > 0 && len(s.Filters.HistoryExclude) > 0 {
		problems = append(problems, "filters.history_include and filters.history_exclude are mutually exclusive")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// LogLevel returns the configured log level.
func (s Settings) LogLevel() logging.Level {
	return logging.ParseLevel(s.Log.Level)
}

// HistoryOptions converts the settings into history options.
func HistoryOptions[S any](s Settings) []history.Option[S] {
	opts := []history.Option[S]{
		history.WithLimit[S](s.History.Limit),
		history.WithUndoType[S](s.History.UndoType),
		history.WithRedoType[S](s.History.RedoType),
		history.WithJumpType[S](s.History.JumpType),
		history.WithJumpToPastType[S](s.History.JumpToPastType),
		history.WithJumpToFutureType[S](s.History.JumpToFutureType),
		history.WithClearHistoryType[S](s.History.ClearHistoryType),
	}

	switch {
	case len(s.Filters.HistoryInclude) > 0:
		opts = append(opts, history.WithHistoryFilter(history.IncludeKinds[S](s.Filters.HistoryInclude...)))
	case len(s.Filters.HistoryExclude) > 0:
		opts = append(opts, history.WithHistoryFilter(history.ExcludeKinds[S](s.Filters.HistoryExclude...)))
	}
	if len(s.Filters.Coalesce) > 0 {
		opts = append(opts, history.WithActionFilter(history.CoalesceKinds[S](s.Filters.Coalesce...)))
	}
	return opts
}
