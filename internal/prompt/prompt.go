// Package prompt reads operator input for the command-line tools.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/osamanazar47/alx-files-manager/internal/common"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var (
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// generatedPasswordBytes yields a 32 character hex password.
const generatedPasswordBytes = 16

// Line prints a prompt to w and reads a single line from reader. The
// trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
//	Prompt text
//	> _
func Line(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a password from the terminal without echo. A newline is
// printed after the read.
func Password(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// NewPassword asks for a password twice and returns it when both entries
// match and are not empty.
func NewPassword(w io.Writer) (string, error) {
	first, err := Password(w, "Enter password: ")
	if err != nil {
		return "", err
	}
	if len(first) == 0 {
		return "", ErrEmptyPassword
	}
	second, err := Password(w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	return string(first), nil
}

// GeneratePassword returns a random hex password.
func GeneratePassword() (string, error) {
	return common.MakeRandHexString(generatedPasswordBytes)
}
