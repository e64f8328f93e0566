package copier

import (
	"fmt"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/types"
)

// EntryKind classifies a filesystem entry
type EntryKind int

const (
	KindFile EntryKind = iota
	KindSymlink
	KindDir
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	case KindDir:
		return "directory"
	}
	return fmt.Sprintf("EntryKind(%d)", int(k))
}

// Conflict is a destination path that already exists
type Conflict struct {
	// Path is the absolute destination path
	Path string
	// Rel is Path relative to the destination root
	Rel string
	// Existing is what occupies the destination now
	Existing EntryKind
	// Incoming is what the template wants to write there
	Incoming EntryKind
}

// Choice is an answer to an Ask-mode prompt
type Choice int

const (
	ChoiceOverwrite Choice = iota
	ChoiceSkip
	ChoiceOverwriteAll
	ChoiceSkipAll
	ChoiceAbort
)

// Choices lists every answer in prompt order
func Choices() []Choice {
	return []Choice{ChoiceOverwrite, ChoiceSkip, ChoiceOverwriteAll, ChoiceSkipAll, ChoiceAbort}
}

func (c Choice) String() string {
	switch c {
	case ChoiceOverwrite:
		return "Overwrite"
	case ChoiceSkip:
		return "Skip"
	case ChoiceOverwriteAll:
		return "Overwrite all"
	case ChoiceSkipAll:
		return "Skip all"
	case ChoiceAbort:
		return "Abort"
	}
	return fmt.Sprintf("Choice(%d)", int(c))
}

// Prompter resolves an Ask-mode conflict. Implementations may block.
type Prompter interface {
	Choose(conflict Conflict) (Choice, error)
}

// PrompterFunc adapts a function to Prompter
type PrompterFunc func(Conflict) (Choice, error)

func (f PrompterFunc) Choose(c Conflict) (Choice, error) {
	return f(c)
}

type action int

const (
	actionSkip action = iota
	actionOverwrite
)

// resolveConflict applies the session write mode to one conflict. Ask
// answers of "all" rewrite *session so later conflicts do not prompt.
func resolveConflict(session *types.WriteMode, prompter Prompter, dstRoot string, c Conflict) (action, error) {
	switch *session {
	case types.WriteModeStrict:
		return 0, errors.TargetNotEmpty(dstRoot)
	case types.WriteModeNoOverwrite:
		return 0, errors.FilesWouldBeOverwritten([]string{c.Rel})
	case types.WriteModeSkipOverwrite:
		return actionSkip, nil
	case types.WriteModeOverwrite:
		return actionOverwrite, nil
	case types.WriteModeAsk:
		if prompter == nil {
			return 0, errors.New(errors.ErrInvalidInput, "write mode ask needs an interactive prompt")
		}
		choice, err := prompter.Choose(c)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrAborted, "prompt for %s failed", c.Rel)
		}
		switch choice {
		case ChoiceOverwrite:
			return actionOverwrite, nil
		case ChoiceSkip:
			return actionSkip, nil
		case ChoiceOverwriteAll:
			*session = types.WriteModeOverwrite
			return actionOverwrite, nil
		case ChoiceSkipAll:
			*session = types.WriteModeSkipOverwrite
			return actionSkip, nil
		case ChoiceAbort:
			return 0, errors.Newf(errors.ErrAborted,
				"aborted at %s: files already written to %s were left in place", c.Rel, dstRoot).
				WithDetail("path", c.Rel)
		}
		return 0, errors.Newf(errors.ErrInternal, "unknown prompt choice %v", choice)
	}
	return 0, errors.Newf(errors.ErrInternal, "unknown write mode %v", *session)
}
