package gemini_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestReadPartSniffsContent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// A PNG signature is recognized from the bytes alone
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	part, err := gemini.ReadPart(bytes.NewReader(data))
	require.NoError(err)
	require.NotNil(part.InlineData)
	assert.Equal("image/png", part.InlineData.MIMEType)
	assert.Equal(data, part.InlineData.Data)

	// Plain text sniffs as text
	part, err = gemini.ReadPart(strings.NewReader("hello, world"))
	require.NoError(err)
	require.NotNil(part.InlineData)
	assert.True(strings.HasPrefix(part.InlineData.MIMEType, "text/plain"))
}

func TestReadPartExtensionFallback(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// Content the sniffer cannot identify falls back to the file extension
	path := filepath.Join(t.TempDir(), "picture.png")
	require.NoError(os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03}, 0644))

	f, err := os.Open(path)
	require.NoError(err)
	defer f.Close()

	part, err := gemini.ReadPart(f)
	require.NoError(err)
	require.NotNil(part.InlineData)
	assert.Equal("image/png", part.InlineData.MIMEType)
}
