// Package ui implements the interactive terminal session: sign-in/sign-up
// and the role-specific menus. It holds no business rules; every decision is
// delegated to the library package and errors come back typed.
package ui

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"bookdesk/library"
)

// Session drives one interactive terminal session against the store.
type Session struct {
	store *library.Store
	log   *slog.Logger
	in    *bufio.Scanner
}

// NewSession wires a session over stdin.
func NewSession(store *library.Store, log *slog.Logger) *Session {
	return &Session{
		store: store,
		log:   log,
		in:    bufio.NewScanner(os.Stdin),
	}
}

// Run loops on sign-in/sign-up until a user is authenticated, then hands
// off to the role menu. It returns when the user exits.
func (s *Session) Run() error {
	Title("Library Desk")
	for {
		choice := s.choose("Sign In or Sign Up?", []string{"Sign In", "Sign Up", "Exit"})
		var user *library.User
		switch choice {
		case 1:
			user = s.signIn()
		case 2:
			user = s.signUp()
		default:
			return nil
		}
		if user == nil {
			continue
		}

		s.log.Info("signed in", "user_id", user.ID, "role", user.Role)
		switch user.Role {
		case library.RoleManager:
			s.managerMenu(user)
		default:
			s.studentMenu(user)
		}
		return nil
	}
}

// ---------------------------------------------------------------------------
// Input helpers
// ---------------------------------------------------------------------------

// readLine prompts and reads one trimmed line; ok is false on EOF.
func (s *Session) readLine(prompt string) (string, bool) {
	Prompt(prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// readPassword reads a masked password.
func (s *Session) readPassword(prompt string) (string, error) {
	Prompt(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// choose renders a numbered menu and returns the 1-based selection, or 0
// when the input is empty or EOF.
func (s *Session) choose(title string, options []string) int {
	Title(title)
	for i, opt := range options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	for {
		line, ok := s.readLine(">")
		if !ok || line == "" {
			return 0
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(options) {
			Error("Pick a number between 1 and %d.", len(options))
			continue
		}
		return n
	}
}

// readOptionalInt reads a line and parses it as int64; empty input returns
// nil.
func (s *Session) readOptionalInt(prompt string) (*int64, bool) {
	for {
		line, ok := s.readLine(prompt)
		if !ok {
			return nil, false
		}
		if line == "" {
			return nil, true
		}
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			Error("Please enter a number.")
			continue
		}
		return &n, true
	}
}
