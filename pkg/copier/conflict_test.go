package copier

import (
	stderrors "errors"
	"testing"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPrompter(choice Choice, calls *int) Prompter {
	return PrompterFunc(func(Conflict) (Choice, error) {
		*calls++
		return choice, nil
	})
}

func TestResolveConflictFixedModes(t *testing.T) {
	c := Conflict{Path: "/dst/a.txt", Rel: "a.txt", Existing: KindFile, Incoming: KindFile}

	tests := []struct {
		name     string
		mode     types.WriteMode
		want     action
		wantCode errors.ErrorCode
	}{
		{"strict", types.WriteModeStrict, 0, errors.ErrTargetNotEmpty},
		{"no_overwrite", types.WriteModeNoOverwrite, 0, errors.ErrFilesWouldBeOverwritten},
		{"skip_overwrite", types.WriteModeSkipOverwrite, actionSkip, ""},
		{"overwrite", types.WriteModeOverwrite, actionOverwrite, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := tt.mode
			got, err := resolveConflict(&session, nil, "/dst", c)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.mode, session, "fixed modes never change the session")
		})
	}
}

func TestResolveConflictAsk(t *testing.T) {
	c := Conflict{Path: "/dst/a.txt", Rel: "a.txt", Existing: KindFile, Incoming: KindFile}

	tests := []struct {
		choice      Choice
		want        action
		wantSession types.WriteMode
	}{
		{ChoiceOverwrite, actionOverwrite, types.WriteModeAsk},
		{ChoiceSkip, actionSkip, types.WriteModeAsk},
		{ChoiceOverwriteAll, actionOverwrite, types.WriteModeOverwrite},
		{ChoiceSkipAll, actionSkip, types.WriteModeSkipOverwrite},
	}

	for _, tt := range tests {
		t.Run(tt.choice.String(), func(t *testing.T) {
			calls := 0
			session := types.WriteModeAsk
			got, err := resolveConflict(&session, fixedPrompter(tt.choice, &calls), "/dst", c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSession, session)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestResolveConflictAskEscalationStopsPrompting(t *testing.T) {
	calls := 0
	session := types.WriteModeAsk
	prompter := fixedPrompter(ChoiceSkipAll, &calls)

	for _, rel := range []string{"a", "b", "c"} {
		got, err := resolveConflict(&session, prompter, "/dst", Conflict{Rel: rel})
		require.NoError(t, err)
		assert.Equal(t, actionSkip, got)
	}
	assert.Equal(t, 1, calls)
}

func TestResolveConflictAbort(t *testing.T) {
	calls := 0
	session := types.WriteModeAsk
	_, err := resolveConflict(&session, fixedPrompter(ChoiceAbort, &calls), "/dst", Conflict{Rel: "x.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAborted))
	assert.Contains(t, err.Error(), "x.txt")
}

func TestResolveConflictPromptError(t *testing.T) {
	session := types.WriteModeAsk
	failing := PrompterFunc(func(Conflict) (Choice, error) {
		return 0, stderrors.New("interrupted")
	})
	_, err := resolveConflict(&session, failing, "/dst", Conflict{Rel: "x.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAborted))
}

func TestResolveConflictAskWithoutPrompter(t *testing.T) {
	session := types.WriteModeAsk
	_, err := resolveConflict(&session, nil, "/dst", Conflict{Rel: "x.txt"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestChoicesOrder(t *testing.T) {
	labels := []string{}
	for _, c := range Choices() {
		labels = append(labels, c.String())
	}
	assert.Equal(t, []string{"Overwrite", "Skip", "Overwrite all", "Skip all", "Abort"}, labels)
}
