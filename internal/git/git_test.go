package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	t.Run("empty output", func(t *testing.T) {
		assert.Nil(t, SplitLines(""))
	})

	t.Run("trims and drops blanks", func(t *testing.T) {
		out := "config/app.yaml\n\n  scripts/deploy.sh  \n"
		assert.Equal(t, []string{"config/app.yaml", "scripts/deploy.sh"}, SplitLines(out))
	})

	t.Run("single line", func(t *testing.T) {
		assert.Equal(t, []string{"main.go"}, SplitLines("main.go"))
	})
}
