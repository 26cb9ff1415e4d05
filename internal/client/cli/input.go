package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// prompter asks the user for form fields on out and reads answers from in.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// line asks for one value. A final line without newline is accepted.
func (p prompter) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(s), nil
}

// password reads a password with echo disabled. Callers wipe the result.
func (p prompter) password() ([]byte, error) {
	fmt.Fprint(p.out, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

type signUpForm struct {
	Email     string
	FirstName string
	LastName  string
}

func (p prompter) signUp() (signUpForm, error) {
	var f signUpForm
	var err error
	if f.Email, err = p.line("Email"); err != nil {
		return f, err
	}
	if f.FirstName, err = p.line("First name"); err != nil {
		return f, err
	}
	if f.LastName, err = p.line("Last name"); err != nil {
		return f, err
	}
	return f, nil
}
