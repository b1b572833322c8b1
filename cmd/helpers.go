package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/output"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/pattern"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/store"
	"github.com/Shelagh-Lewins/twisted-threads-2-sub002/internal/suggest"
)

// errInvalidInput marks bad arguments and flags.
var errInvalidInput = errors.New("invalid input")

// notFoundError carries close matches for an unknown pattern reference.
type notFoundError struct {
	ref         string
	suggestions []string
	err         error
}

func (e *notFoundError) Error() string {
	msg := e.err.Error()
	if len(e.suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.suggestions, ", "))
	}
	return msg
}

func (e *notFoundError) Unwrap() error { return e.err }

func invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, errInvalidInput)...)
}

// errorCode maps an error onto the JSON error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return output.ErrCodeNotFound
	case errors.Is(err, store.ErrAmbiguous):
		return output.ErrCodeAmbiguous
	case errors.Is(err, pattern.ErrInvalid), errors.Is(err, pattern.ErrOutOfRange), errors.Is(err, errInvalidInput):
		return output.ErrCodeInvalidInput
	case errors.Is(err, errLibrary):
		return output.ErrCodeDatabaseError
	case errors.Is(err, fs.ErrPermission):
		return output.ErrCodeIOError
	}
	return output.ErrCodeInternal
}

// reportError prints err for the user, as JSON with --json, and returns it.
func reportError(err error) error {
	if err == nil {
		return nil
	}
	slog.Debug("command failed", "err", err)
	if jsonOutput {
		var nf *notFoundError
		if errors.As(err, &nf) && len(nf.suggestions) > 0 {
			output.JSONErrorWithDetails(errorCode(err), err.Error(), map[string]interface{}{
				"ref":         nf.ref,
				"suggestions": nf.suggestions,
			})
			return err
		}
		output.JSONError(errorCode(err), err.Error())
		return err
	}
	output.Error("%v", err)
	return err
}

// errLibrary wraps failures opening the library database.
var errLibrary = errors.New("library error")

func openStore() (*store.Store, error) {
	slog.Debug("opening library", "path", cfg.Library.Path)
	s, err := store.Open(cfg.Library.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errLibrary, err)
	}
	return s, nil
}

// resolvePattern looks up ref in the library, suggesting close names when
// nothing matches.
func resolvePattern(s *store.Store, ref string) (*pattern.Pattern, error) {
	p, err := s.Resolve(ref)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return p, err
	}
	names, nerr := s.Names()
	if nerr != nil {
		slog.Warn("list names for suggestions", "err", nerr)
	}
	return nil, &notFoundError{ref: ref, suggestions: suggest.Names(ref, names), err: err}
}

// isPatternFile reports whether ref names an existing YAML or JSON file.
func isPatternFile(ref string) bool {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

// loadPattern reads a pattern from a file path or the library.
func loadPattern(ref string) (*pattern.Pattern, error) {
	if isPatternFile(ref) {
		p, err := pattern.Load(ref)
		if err != nil {
			return nil, err
		}
		return p, validatePattern(p)
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return resolvePattern(s, ref)
}

func validatePattern(p *pattern.Pattern) error {
	return p.Validate(cfg.Weaving.MaxTurns)
}

// updatePattern loads ref from the library, applies edit, validates and saves.
func updatePattern(ref string, edit func(p *pattern.Pattern) error) (*pattern.Pattern, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	p, err := resolvePattern(s, ref)
	if err != nil {
		return nil, err
	}
	if err := edit(p); err != nil {
		return nil, err
	}
	if err := validatePattern(p); err != nil {
		return nil, err
	}
	if err := s.Update(p); err != nil {
		return nil, err
	}
	slog.Info("pattern updated", "id", p.ID, "name", p.Name)
	return p, nil
}

// parseIndex parses a 1-based row or tablet number into a 0-based index.
func parseIndex(arg, what string, count int) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, invalidf("%s %q is not a number", what, arg)
	}
	if n < 1 || n > count {
		return 0, invalidf("%s %d out of range 1-%d", what, n, count)
	}
	return n - 1, nil
}

// parseTags splits a comma-separated tag list.
func parseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return store.NormalizeTags(strings.Split(s, ","))
}
