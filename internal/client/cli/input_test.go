package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return prompter{in: bufio.NewReader(strings.NewReader(input)), out: out}, out
}

func TestPrompterLine(t *testing.T) {
	p, out := newPrompter("  ann@example.com \n")
	got, err := p.line("Email")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got)
	assert.Equal(t, "Email: ", out.String())

	p, _ = newPrompter("no-newline")
	got, err = p.line("Email")
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)

	p, _ = newPrompter("")
	_, err = p.line("Email")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompterSignUp(t *testing.T) {
	p, _ := newPrompter("ann@example.com\nAnn\nLee\n")
	f, err := p.signUp()
	require.NoError(t, err)
	assert.Equal(t, signUpForm{Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}, f)

	p, _ = newPrompter("ann@example.com\n")
	_, err = p.signUp()
	assert.Error(t, err)
}

func TestPrompterPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()

	readPassword = func(int) ([]byte, error) { return []byte("Secret123"), nil }
	p, out := newPrompter("")
	pw, err := p.password()
	require.NoError(t, err)
	assert.Equal(t, []byte("Secret123"), pw)
	assert.NotContains(t, out.String(), "Secret123")

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = p.password()
	assert.Error(t, err)
}
