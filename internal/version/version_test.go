package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	s := String()
	assert.Contains(t, s, "goodneighbor v1.2.3")
	assert.Contains(t, s, "commit="+Commit)
	assert.Contains(t, s, "go="+GoVersion)
}
