package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Console reads answers line by line from an input stream and writes prompts
// to an output stream.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Prompt writes label and returns the next line of input with surrounding
// whitespace removed. A final line without a newline is still returned;
// io.EOF is only returned once the input is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	if _, err := io.WriteString(c.out, label); err != nil {
		return "", errors.WithStack(err)
	}

	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", errors.WithStack(err)
	}
	return strings.TrimSpace(line), nil
}

// YesNo asks a yes/no question. Only "y" and "yes" count as yes.
func (c *Console) YesNo(label string) (bool, error) {
	answer, err := c.Prompt(label)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Select asks for an index into a list of n entries and keeps asking until it
// gets one in range.
func (c *Console) Select(label string, n int) (int, error) {
	if n <= 0 {
		return 0, errors.New("nothing to select from")
	}
	for {
		answer, err := c.Prompt(label)
		if err != nil {
			return 0, err
		}

		i, err := strconv.Atoi(answer)
		switch {
		case err != nil:
			fmt.Fprintf(c.out, "[error]: %q is not a number.\n", answer)
		case i < 0 || i >= n:
			fmt.Fprintln(c.out, "[error]: out of bounds.")
		default:
			return i, nil
		}
		fmt.Fprintln(c.out, "Try again.")
	}
}
