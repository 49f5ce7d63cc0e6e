package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded_KnownKeys(t *testing.T) {
	p := NewEmbedded()
	for _, key := range Keys() {
		content, err := p.Get(key)
		require.NoError(t, err, key)
		assert.NotEmpty(t, content, key)
	}
}

func TestEmbedded_Stylesheet(t *testing.T) {
	content, err := NewEmbedded().Get(Stylesheet)
	require.NoError(t, err)
	assert.Contains(t, content, `@import "tailwindcss";`)
}

func TestEmbedded_UnknownKey(t *testing.T) {
	_, err := NewEmbedded().Get(Key("nope.txt"))
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestStatic(t *testing.T) {
	s := Static{Server: "console.log('hi')"}

	content, err := s.Get(Server)
	require.NoError(t, err)
	assert.Equal(t, "console.log('hi')", content)

	_, err = s.Get(DBConfig)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
