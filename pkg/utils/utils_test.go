package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TruncateTitle(t *testing.T) {
	assert.Equal(t, "top 5 customers", TruncateTitle("top 5 customers", 50))

	long := strings.Repeat("a", 60)
	got := TruncateTitle(long, 50)
	assert.Equal(t, strings.Repeat("a", 50)+"...", got)

	// rune-safe, not byte-safe
	cjk := strings.Repeat("数", 55)
	got = TruncateTitle(cjk, 50)
	assert.Equal(t, strings.Repeat("数", 50)+"...", got)

	assert.Equal(t, "", TruncateTitle("", 50))
}

func Test_GenUserPassword(t *testing.T) {
	a := GenUserPassword("salt-a", "secret")
	b := GenUserPassword("salt-a", "secret")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, GenUserPassword("salt-b", "secret"))
	assert.NotEqual(t, a, GenUserPassword("salt-a", "other"))
	assert.Len(t, a, 32)
}
