package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	assert.Equal(t, "dark", For(true).Name)
	assert.Equal(t, "light", For(false).Name)
}

func TestDetectDarkExplicit(t *testing.T) {
	assert.True(t, DetectDark("dark"))
	assert.False(t, DetectDark("light"))
}

func TestPalettesDiffer(t *testing.T) {
	assert.NotEqual(t, Light.Background, Dark.Background)
	assert.NotEqual(t, Light.Text, Dark.Text)
}
