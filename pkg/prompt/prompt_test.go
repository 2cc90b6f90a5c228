package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_Prompt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  Dune  \nlast"), &out)

	answer, err := c.Prompt("Title: ")
	require.NoError(t, err)
	assert.Equal(t, "Dune", answer)
	assert.Equal(t, "Title: ", out.String())

	answer, err = c.Prompt("Author: ")
	require.NoError(t, err)
	assert.Equal(t, "last", answer)

	_, err = c.Prompt("More: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsole_YesNo(t *testing.T) {
	t.Parallel()

	c := NewConsole(strings.NewReader("y\nYES\nn\nmaybe\n"), io.Discard)
	for _, expected := range []bool{true, true, false, false} {
		answer, err := c.YesNo("? ")
		require.NoError(t, err)
		assert.Equal(t, expected, answer)
	}
}

func TestConsole_Select(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := NewConsole(strings.NewReader("abc\n5\n-1\n2\n"), &out)

	i, err := c.Select("Please enter a number: ", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Equal(t, 3, strings.Count(out.String(), "Try again."))
	assert.Contains(t, out.String(), "out of bounds")
}

func TestConsole_SelectEOF(t *testing.T) {
	t.Parallel()

	c := NewConsole(strings.NewReader("9\n"), io.Discard)
	_, err := c.Select("? ", 3)
	assert.ErrorIs(t, err, io.EOF)

	_, err = c.Select("? ", 0)
	assert.Error(t, err)
}
