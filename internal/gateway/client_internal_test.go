package gateway

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateBody(t *testing.T) {
	short := "upstream unavailable"
	assert.Equal(t, short, truncateBody([]byte(short)))

	ascii := strings.Repeat("a", maxLoggedBody+10)
	assert.Len(t, truncateBody([]byte(ascii)), maxLoggedBody)

	// 299 ASCII bytes then a 3-byte rune straddling the limit.
	straddle := strings.Repeat("a", maxLoggedBody-1) + "€" + "tail"
	got := truncateBody([]byte(straddle))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxLoggedBody-1), got)
}
