package library

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
)

const usersTable = "users"

// CreateUser registers a user. Creation is idempotent: when a user with the
// same id and email already exists the stored row is returned unchanged and
// no insert happens. The initial password is the student id itself; the
// sign-up flow tells the user to change it.
func (s *Store) CreateUser(id int64, email, firstName, lastName, role string) (*User, error) {
	if id <= 0 || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: user id and email are required", ErrInvalidInput)
	}
	if role == "" {
		role = RoleStudent
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var existing User
	err := s.getOne(&existing, s.qb.From(usersTable).
		Where(goqu.C("id").Eq(id), goqu.C("email").Eq(email)))
	if err == nil {
		s.log.Warn("user already exists, no row inserted", "user_id", id, "email", email)
		return &existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	digest, err := HashPassword(strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}

	_, err = s.insertRow(s.qb.Insert(usersTable).Rows(goqu.Record{
		"id":         id,
		"email":      email,
		"first_name": titleCase(firstName),
		"last_name":  titleCase(lastName),
		"password":   digest,
		"role":       role,
	}))
	if err != nil {
		return nil, err
	}

	s.log.Info("created user", "user_id", id, "email", email, "role", role)
	return s.GetUser(id)
}

// GetUser fetches a user by id.
func (s *Store) GetUser(id int64) (*User, error) {
	var u User
	if err := s.getOne(&u, s.qb.From(usersTable).Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail looks a user up by lowercased email.
func (s *Store) UserByEmail(email string) (*User, error) {
	var u User
	err := s.getOne(&u, s.qb.From(usersTable).
		Where(goqu.C("email").Eq(strings.ToLower(strings.TrimSpace(email)))))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// StudentByID fetches a user by id restricted to the student role; managers
// searching for students never see other managers.
func (s *Store) StudentByID(id int64) (*User, error) {
	var u User
	err := s.getOne(&u, s.qb.From(usersTable).
		Where(goqu.C("id").Eq(id), goqu.C("role").Eq(RoleStudent)))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword replaces the user's password with a fresh bcrypt digest.
func (s *Store) UpdatePassword(userID int64, plain string) error {
	digest, err := HashPassword(plain)
	if err != nil {
		return err
	}
	query, args, err := s.qb.Update(usersTable).
		Set(goqu.Record{"password": digest, "updated_at": s.now()}).
		Where(goqu.C("id").Eq(userID)).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	n, err := s.execRows(query, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Info("password updated", "user_id", userID)
	return nil
}
