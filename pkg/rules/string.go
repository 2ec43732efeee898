package rules

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	defaultStringMessage   = "{value} must be a string."
	defaultNotEqualMessage = "{value} has the wrong length."
	defaultTooShortMessage = "{value} is too short."
	defaultTooLongMessage  = "{value} is too long."
	defaultCaptchaMessage  = "The verification code is incorrect."
)

// String checks the value is a string and, optionally, its length in
// characters.
//
// Options: skipOnEmpty, is, min, max, message, notEqual, tooShort, tooLong.
func String(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	s, ok := value.(string)
	if !ok {
		return one(opts.String("message", defaultStringMessage), value), nil
	}

	var msgs Messages
	length := utf8.RuneCountInString(s)
	if is, ok := opts.Int("is"); ok && length != is {
		msgs = append(msgs, prepare(opts.String("notEqual", defaultNotEqualMessage), s))
	}
	if minLen, ok := opts.Int("min"); ok && length < minLen {
		msgs = append(msgs, prepare(opts.String("tooShort", defaultTooShortMessage), s))
	}
	if maxLen, ok := opts.Int("max"); ok && length > maxLen {
		msgs = append(msgs, prepare(opts.String("tooLong", defaultTooLongMessage), s))
	}
	return msgs, nil
}

// Captcha compares the sum of the code points of the value against hash.
//
// Options: skipOnEmpty, caseSensitive, hash, message.
func Captcha(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	v := stringify(value)
	if !opts.Bool("caseSensitive", false) {
		v = strings.ToLower(v)
	}

	h := 0
	for _, r := range v {
		h += int(r)
	}

	expected, ok := opts.Int("hash")
	if !ok || h != expected {
		return one(opts.String("message", defaultCaptchaMessage), value), nil
	}
	return nil, nil
}
