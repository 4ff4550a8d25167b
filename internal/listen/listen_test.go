package listen

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextCaptorReadsLines(t *testing.T) {
	var prompt bytes.Buffer
	c := NewTextCaptor(strings.NewReader("hello\nhow are you\n"), &prompt)

	text, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "how are you", text)

	assert.Contains(t, prompt.String(), "> ")
}

func TestTextCaptorEOF(t *testing.T) {
	c := NewTextCaptor(strings.NewReader(""), nil)

	_, err := c.Capture(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}
