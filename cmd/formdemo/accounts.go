package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/logger"
)

// accounts is the in-memory user directory behind the signup form. It
// plays the server side of remote validation.
type accounts struct {
	mu        sync.RWMutex
	usernames map[string]bool
	emails    map[string]bool
	log       *slog.Logger
}

func newAccounts(log *slog.Logger, reserved ...string) *accounts {
	a := &accounts{
		usernames: make(map[string]bool),
		emails:    make(map[string]bool),
		log:       log.With(logger.Component("accounts")),
	}
	for _, name := range reserved {
		a.usernames[name] = true
	}
	return a
}

// validate reports taken usernames and emails.
func (a *accounts) validate(_ context.Context, values form.Values) (map[string][]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := map[string][]string{}
	if name := normalize(values["username"]); name != "" && a.usernames[name] {
		result["username"] = []string{fmt.Sprintf("%q is already taken", name)}
	}
	if email := normalize(values["email"]); email != "" && a.emails[email] {
		result["email"] = []string{"is already registered"}
	}
	return result, nil
}

// create registers the account. A concurrent signup may take the name
// between validation and submit.
func (a *accounts) create(ctx context.Context, values form.Values) error {
	name, email := normalize(values["username"]), normalize(values["email"])

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.usernames[name] || a.emails[email] {
		return fmt.Errorf("account %q already exists", name)
	}
	a.usernames[name] = true
	a.emails[email] = true
	a.log.InfoContext(ctx, "account created", slog.String("username", name))
	return nil
}

func normalize(v any) string {
	s, _ := v.(string)
	return strings.ToLower(strings.TrimSpace(s))
}
