package wlrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaggedTitlePrependsTagVerbatim(t *testing.T) {
	assert.Equal(t, "[vm] term", taggedTitle("[vm] ", "term"))
}

func TestTaggedTitleInsertsNoSeparator(t *testing.T) {
	assert.Equal(t, "[vm]term", taggedTitle("[vm]", "term"))
}

func TestTaggedTitleWithEmptyTagLeavesTitleUntouched(t *testing.T) {
	assert.Equal(t, "Terminal", taggedTitle("", "Terminal"))
}

func TestTaggedTitleWithEmptyTitleUsesTagAlone(t *testing.T) {
	assert.Equal(t, "[vm] ", taggedTitle("[vm] ", ""))
}
