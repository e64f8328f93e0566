package types_test

import (
	"encoding/json"
	"testing"

	"github.com/Serenacula/templative/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitMode(t *testing.T) {
	for _, mode := range types.GitModes() {
		parsed, err := types.ParseGitMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := types.ParseGitMode("shallow")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "shallow")
}

func TestParseWriteMode(t *testing.T) {
	tests := []struct {
		input    string
		expected types.WriteMode
	}{
		{"strict", types.WriteModeStrict},
		{"no-overwrite", types.WriteModeNoOverwrite},
		{"skip-overwrite", types.WriteModeSkipOverwrite},
		{"overwrite", types.WriteModeOverwrite},
		{"ask", types.WriteModeAsk},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := types.ParseWriteMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
			assert.Equal(t, tt.input, mode.String())
		})
	}

	_, err := types.ParseWriteMode("Overwrite")
	assert.Error(t, err)
}

func TestParseUpdateOnInit(t *testing.T) {
	policy, err := types.ParseUpdateOnInit("only-url")
	require.NoError(t, err)
	assert.Equal(t, types.UpdateOnlyURL, policy)

	_, err = types.ParseUpdateOnInit("sometimes")
	assert.Error(t, err)
}

func TestUnknownEnumValueString(t *testing.T) {
	assert.Equal(t, "GitMode(42)", types.GitMode(42).String())
	_, err := types.WriteMode(42).MarshalText()
	assert.Error(t, err)
}

func TestTemplateJSON(t *testing.T) {
	tmpl := types.Template{
		Name:      "web",
		Location:  "https://example.com/web.git",
		GitMode:   types.Ptr(types.GitModePreserve),
		WriteMode: types.Ptr(types.WriteModeAsk),
		NoCache:   types.Ptr(true),
		Exclude:   []string{"dist"},
	}

	data, err := json.Marshal(tmpl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "web",
		"location": "https://example.com/web.git",
		"git": "preserve",
		"write-mode": "ask",
		"no-cache": true,
		"exclude": ["dist"]
	}`, string(data))

	var decoded types.Template
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.GitMode)
	assert.Equal(t, types.GitModePreserve, *decoded.GitMode)

	err = json.Unmarshal([]byte(`{"name":"x","location":"/x","git":"bogus"}`), &decoded)
	assert.Error(t, err)
}

func TestTemplateClone(t *testing.T) {
	orig := types.Template{
		Name:    "web",
		GitMode: types.Ptr(types.GitModeFresh),
		Exclude: []string{"a"},
	}
	clone := orig.Clone()
	*clone.GitMode = types.GitModeNoGit
	clone.Exclude[0] = "b"

	assert.Equal(t, types.GitModeFresh, *orig.GitMode)
	assert.Equal(t, "a", orig.Exclude[0])
}
