package styles_test

import (
	"testing"

	"github.com/Serenacula/templative/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	expectedStyles := []string{
		"Success", "Error", "Warning", "Info", "Muted",
		"TableHeader",
		"StatusNormal", "StatusNoGit", "StatusInfo", "StatusProblem", "StatusGone",
		"PromptPath",
	}

	for _, styleName := range expectedStyles {
		t.Run(styleName, func(t *testing.T) {
			_, exists := styles.StyleRegistry[styleName]
			assert.True(t, exists, "Style %s should exist in registry", styleName)
		})
	}
}

func TestStyleAttributes(t *testing.T) {
	assert.True(t, styles.GetStyle("StatusGone").GetStrikethrough())
	assert.True(t, styles.GetStyle("TableHeader").GetUnderline())
	assert.True(t, styles.GetStyle("Error").GetBold())
	assert.False(t, styles.GetStyle("StatusNormal").GetBold())
}

func TestGetStyleUnknownName(t *testing.T) {
	style := styles.GetStyle("DoesNotExist")
	assert.Equal(t, "plain", style.Render("plain"))
}

func TestLoadStylesFromData(t *testing.T) {
	t.Cleanup(func() {
		// restore the embedded definitions for other tests
		require.NoError(t, styles.LoadStyles("styles.yaml"))
	})

	data := []byte(`
colors:
  accent: {light: "#000000", dark: "#FFFFFF"}
styles:
  Custom:
    bold: true
    foreground: accent
`)
	require.NoError(t, styles.LoadStylesFromData(data))
	assert.True(t, styles.GetStyle("Custom").GetBold())
	_, exists := styles.StyleRegistry["Error"]
	assert.False(t, exists)

	assert.Error(t, styles.LoadStylesFromData([]byte("styles: [unclosed")))
}
