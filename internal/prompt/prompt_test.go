package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func TestLine(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("bob@dylan.com\n"))
	var out bytes.Buffer
	got, err := Line(in, "Email?", &out)
	require.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", got)
	assert.Equal(t, "Email?\n> ", out.String())
}

func TestLine_EOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := Line(in, "Email?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = Line(bufio.NewReader(strings.NewReader("")), "Email?", &out)
	assert.Error(t, err)
}

func TestPassword_Error(t *testing.T) {
	stubPasswords(t)
	var out bytes.Buffer
	_, err := Password(&out, "Enter password: ")
	assert.Error(t, err)
}

func TestNewPassword(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    string
		wantErr error
	}{
		{"match", []string{"toto1234!", "toto1234!"}, "toto1234!", nil},
		{"mismatch", []string{"toto1234!", "toto"}, "", ErrPasswordMismatch},
		{"empty", []string{""}, "", ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPasswords(t, tt.answers...)
			var out bytes.Buffer
			got, err := NewPassword(&out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	a, err := GeneratePassword()
	require.NoError(t, err)
	b, err := GeneratePassword()
	require.NoError(t, err)
	assert.Len(t, a, 2*generatedPasswordBytes)
	assert.NotEqual(t, a, b)
}
