package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageKeys(t *testing.T) {
	keys := pageKeys([]string{"/dashboard", "/polls/abc", "/dashboard", ""})
	assert.Equal(t, []string{"page:/dashboard", "page:/polls/abc"}, keys)
}

func TestPageKeysEmpty(t *testing.T) {
	assert.Empty(t, pageKeys(nil))
	assert.Empty(t, pageKeys([]string{""}))
}
