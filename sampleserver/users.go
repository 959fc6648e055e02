// Copyright 2021 mamezou-tech. All rights reserved.

package sampleserver

import (
	"strings"

	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// ParseUsers parses a comma separated list of 'name:password' pairs.
// An empty string returns no users.
func ParseUsers(s string) ([]ua.UserNameIdentity, error) {
	var users []ua.UserNameIdentity
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, password, ok := strings.Cut(pair, ":")
		if !ok || name == "" {
			return nil, errors.Errorf("invalid user '%s', want 'name:password'", pair)
		}
		users = append(users, ua.UserNameIdentity{UserName: name, Password: password})
	}
	return users, nil
}

// userNameAuthenticator checks user names and passwords against bcrypt hashes.
type userNameAuthenticator struct {
	hashes map[string][]byte
}

// newUserNameAuthenticator hashes the passwords of the given users.
func newUserNameAuthenticator(users []ua.UserNameIdentity) (*userNameAuthenticator, error) {
	a := &userNameAuthenticator{hashes: make(map[string][]byte, len(users))}
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), 8)
		if err != nil {
			return nil, errors.Wrapf(err, "Error hashing password of user '%s'", u.UserName)
		}
		a.hashes[u.UserName] = hash
	}
	return a, nil
}

// Authenticate returns BadUserAccessDenied unless the user name and password match.
func (a *userNameAuthenticator) Authenticate(userIdentity ua.UserNameIdentity, applicationURI string, endpointURL string) error {
	hash, ok := a.hashes[userIdentity.UserName]
	if !ok {
		return ua.BadUserAccessDenied
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(userIdentity.Password)); err != nil {
		return ua.BadUserAccessDenied
	}
	return nil
}
