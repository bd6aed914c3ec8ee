// Package auth implements the shared access key that guards the CLI.
//
// The key is a convenience lock for a shared studio computer, not a
// security boundary: anyone with file access can read the data.
package auth

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/manav03panchal/studiodesk/internal/config"
	"github.com/manav03panchal/studiodesk/internal/errors"
)

// Gate checks the access key.
type Gate struct {
	key  string
	hash string
}

// NewGate creates a gate from config.
func NewGate(cfg config.AccessConfig) *Gate {
	return &Gate{key: cfg.Key, hash: strings.TrimSpace(cfg.KeyHash)}
}

// Open reports whether no key is configured.
func (g *Gate) Open() bool {
	return g.key == "" && g.hash == ""
}

// Check verifies input. A configured hash takes precedence over a plain
// key.
func (g *Gate) Check(input string) error {
	if g.Open() {
		return nil
	}

	if g.hash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(g.hash), []byte(input))
		if err == nil {
			return nil
		}
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return errors.NewSystemErrorWithOp("access check", "access.key_hash is not a valid bcrypt hash", err)
		}
		return denied()
	}

	if subtle.ConstantTimeCompare([]byte(g.key), []byte(input)) == 1 {
		return nil
	}
	return denied()
}

func denied() error {
	return errors.NewUserError("Access key rejected",
		"Pass --key or set STUDIODESK_KEY").WithCause(errors.ErrAccessDenied)
}

// HashKey returns a bcrypt hash for access.key_hash.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", errors.NewUserError("Key cannot be empty", "").WithCause(errors.ErrNameRequired)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Prompt reads a key. When in is a terminal the input is not echoed;
// otherwise one line is read.
func Prompt(in *os.File, out io.Writer, label string) (string, error) {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		fmt.Fprint(out, label)
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return ReadLine(in)
}

// ReadLine reads one line from r without the line ending.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
