package ui

import (
	"errors"
	"regexp"
	"strconv"

	"bookdesk/library"
)

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	studentIDPattern = regexp.MustCompile(`^\d{9,11}$`)
	namePattern      = regexp.MustCompile(`^[A-Za-z\s'\-]{2,}$`)

	// At least 8 chars with a lowercase, an uppercase, a digit and a
	// special character.
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&.]`)
)

func strongPassword(p string) bool {
	return len(p) >= 8 &&
		passwordLower.MatchString(p) &&
		passwordUpper.MatchString(p) &&
		passwordDigit.MatchString(p) &&
		passwordSpecial.MatchString(p)
}

// signIn authenticates by email and password. Returns nil when the user
// backs out with empty input.
func (s *Session) signIn() *library.User {
	Title("Sign In")
	for {
		email, ok := s.readLine("Email:")
		if !ok || email == "" {
			return nil
		}
		if !emailPattern.MatchString(email) {
			Error("Invalid email address. Please try again.")
			continue
		}

		user, err := s.store.UserByEmail(email)
		if err != nil {
			if errors.Is(err, library.ErrNotFound) {
				Error("No user with that email address.")
				continue
			}
			Error("Sign in failed: %v", err)
			return nil
		}

		for {
			password, perr := s.readPassword("Password (default: your student ID):")
			if perr != nil || password == "" {
				break
			}
			if library.CheckPassword(password, user.PasswordHash) {
				Success("Welcome back, %s.", user.FullName())
				return user
			}
			Error("Incorrect password. Please try again.")
		}
	}
}

// signUp registers a new student. The initial password is the student id;
// the user is told to change it from the menu.
func (s *Session) signUp() *library.User {
	Title("Sign Up")

	id := s.readStudentID()
	if id == 0 {
		return nil
	}
	email := s.readNewEmail()
	if email == "" {
		return nil
	}
	first := s.readName("First name:")
	if first == "" {
		return nil
	}
	last := s.readName("Last name:")
	if last == "" {
		return nil
	}

	user, err := s.store.CreateUser(id, email, first, last, library.RoleStudent)
	if err != nil {
		Error("Sign up failed: %v", err)
		return nil
	}
	Success("Account created for %s.", user.FullName())
	Warning("Your password is your student ID. Change it from the menu.")
	return user
}

func (s *Session) readStudentID() int64 {
	for {
		line, ok := s.readLine("Student identification number:")
		if !ok || line == "" {
			return 0
		}
		if !studentIDPattern.MatchString(line) {
			Error("Invalid student identification number (9 to 11 digits).")
			continue
		}
		id, _ := strconv.ParseInt(line, 10, 64)
		if _, err := s.store.GetUser(id); err == nil {
			Error("A user with that student identification number already exists.")
			continue
		}
		return id
	}
}

func (s *Session) readNewEmail() string {
	for {
		email, ok := s.readLine("Email:")
		if !ok || email == "" {
			return ""
		}
		if !emailPattern.MatchString(email) {
			Error("Invalid email address. Please try again.")
			continue
		}
		if _, err := s.store.UserByEmail(email); err == nil {
			Error("That email address is already registered.")
			continue
		}
		return email
	}
}

func (s *Session) readName(prompt string) string {
	for {
		name, ok := s.readLine(prompt)
		if !ok || name == "" {
			return ""
		}
		if !namePattern.MatchString(name) {
			Error("Please enter a valid name.")
			continue
		}
		return name
	}
}

// changePassword walks the old/new/confirm dance. askOld is false when a
// manager resets a student's password.
func (s *Session) changePassword(user *library.User, askOld bool) {
	Title("Change Password")

	for askOld {
		old, err := s.readPassword("Current password:")
		if err != nil || old == "" {
			return
		}
		if library.CheckPassword(old, user.PasswordHash) {
			break
		}
		Error("Password is incorrect. Please try again.")
	}

	for {
		newPassword, err := s.readPassword("New password:")
		if err != nil || newPassword == "" {
			return
		}
		if !strongPassword(newPassword) {
			Error("Password is not strong enough: at least 8 characters with upper, lower, digit and one of @$!%%*?&.")
			continue
		}
		again, err := s.readPassword("New password again:")
		if err != nil || again == "" {
			return
		}
		if newPassword != again {
			Error("Passwords do not match. Please try again.")
			continue
		}
		if err := s.store.UpdatePassword(user.ID, newPassword); err != nil {
			Error("Could not change password: %v", err)
			return
		}
		Success("Password changed.")
		return
	}
}
