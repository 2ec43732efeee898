package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/activeform/pkg/rules"
)

func run(t *testing.T, fn rules.Func, value any, opts rules.Options) rules.Messages {
	t.Helper()
	msgs, err := fn(context.Background(), value, opts)
	require.NoError(t, err)
	return msgs
}

func TestRegistry(t *testing.T) {
	t.Run("builtins hold the standard validators", func(t *testing.T) {
		reg := rules.Builtins()
		assert.Equal(t, []string{
			"boolean", "captcha", "compare", "email", "file", "image", "ip",
			"number", "range", "regularExpression", "required", "string", "url",
		}, reg.Names())
	})

	t.Run("each call returns an independent registry", func(t *testing.T) {
		a := rules.Builtins()
		b := rules.Builtins()
		a.Register("custom", rules.Required)

		_, err := a.Lookup("custom")
		require.NoError(t, err)
		_, err = b.Lookup("custom")
		assert.ErrorIs(t, err, rules.ErrUnknownValidator)
	})

	t.Run("unknown validator names the offender", func(t *testing.T) {
		_, err := rules.NewRegistry().Lookup("nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, rules.ErrUnknownValidator))
		assert.Contains(t, err.Error(), `"nope"`)
	})

	t.Run("custom validators override builtins", func(t *testing.T) {
		reg := rules.Builtins()
		reg.Register("required", func(context.Context, any, rules.Options) (rules.Messages, error) {
			return rules.Messages{"custom"}, nil
		})
		fn, err := reg.Lookup("required")
		require.NoError(t, err)
		assert.Equal(t, rules.Messages{"custom"}, run(t, fn, "x", nil))
	})

	t.Run("nil registrations are ignored", func(t *testing.T) {
		reg := rules.NewRegistry()
		reg.Register("x", nil)
		reg.Register("", rules.Required)
		assert.Empty(t, reg.Names())
	})
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, rules.IsEmpty(nil))
	assert.True(t, rules.IsEmpty(""))
	assert.True(t, rules.IsEmpty([]string{}))
	assert.True(t, rules.IsEmpty([]rules.Upload(nil)))
	assert.False(t, rules.IsEmpty(" "))
	assert.False(t, rules.IsEmpty(false))
	assert.False(t, rules.IsEmpty(0))
	assert.False(t, rules.IsEmpty([]string{"a"}))
}

func TestRequired(t *testing.T) {
	t.Run("empty string fails with default message", func(t *testing.T) {
		assert.Equal(t, rules.Messages{"is required"}, run(t, rules.Required, "", nil))
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		assert.Len(t, run(t, rules.Required, "   ", nil), 1)
	})

	t.Run("value passes", func(t *testing.T) {
		assert.Empty(t, run(t, rules.Required, "30", nil))
	})

	t.Run("empty list fails", func(t *testing.T) {
		assert.Len(t, run(t, rules.Required, []string{}, nil), 1)
	})

	t.Run("strict uses truthiness", func(t *testing.T) {
		opts := rules.Options{"strict": true}
		assert.Len(t, run(t, rules.Required, false, opts), 1)
		assert.Len(t, run(t, rules.Required, 0, opts), 1)
		assert.Empty(t, run(t, rules.Required, " ", opts))
	})

	t.Run("required value must match", func(t *testing.T) {
		opts := rules.Options{"requiredValue": "1", "message": "accept {value}"}
		assert.Empty(t, run(t, rules.Required, "1", opts))
		assert.Empty(t, run(t, rules.Required, 1, opts))
		assert.Equal(t, rules.Messages{"accept 0"}, run(t, rules.Required, "0", opts))
	})

	t.Run("strict required value checks type", func(t *testing.T) {
		opts := rules.Options{"requiredValue": "1", "strict": true}
		assert.Len(t, run(t, rules.Required, 1, opts), 1)
		assert.Empty(t, run(t, rules.Required, "1", opts))
	})
}

func TestBoolean(t *testing.T) {
	t.Run("default true and false values", func(t *testing.T) {
		assert.Empty(t, run(t, rules.Boolean, "1", nil))
		assert.Empty(t, run(t, rules.Boolean, "0", nil))
		assert.Empty(t, run(t, rules.Boolean, true, nil))
		assert.Equal(t, rules.Messages{`must be either "1" or "0".`}, run(t, rules.Boolean, "yes", nil))
	})

	t.Run("strict rejects bool for string values", func(t *testing.T) {
		assert.Len(t, run(t, rules.Boolean, true, rules.Options{"strict": true}), 1)
	})

	t.Run("skip on empty", func(t *testing.T) {
		assert.Empty(t, run(t, rules.Boolean, "", rules.Options{"skipOnEmpty": true}))
	})
}

func TestString(t *testing.T) {
	t.Run("non string fails", func(t *testing.T) {
		assert.Equal(t, rules.Messages{"5 must be a string."}, run(t, rules.String, 5, nil))
	})

	t.Run("length checks accumulate", func(t *testing.T) {
		opts := rules.Options{"is": 4, "min": 3, "max": 5}
		assert.Equal(t, rules.Messages{"ab has the wrong length.", "ab is too short."}, run(t, rules.String, "ab", opts))
		assert.Empty(t, run(t, rules.String, "abcd", opts))
	})

	t.Run("length counts characters", func(t *testing.T) {
		assert.Empty(t, run(t, rules.String, "héhé", rules.Options{"max": 4}))
	})

	t.Run("custom messages", func(t *testing.T) {
		opts := rules.Options{"max": 2, "tooLong": "max 2 ({value})"}
		assert.Equal(t, rules.Messages{"max 2 (abc)"}, run(t, rules.String, "abc", opts))
	})

	t.Run("skip on empty", func(t *testing.T) {
		assert.Empty(t, run(t, rules.String, "", rules.Options{"skipOnEmpty": true, "min": 3}))
	})
}

func TestNumber(t *testing.T) {
	t.Run("pattern mismatch short-circuits", func(t *testing.T) {
		opts := rules.Options{"min": 10}
		assert.Equal(t, rules.Messages{"abc must be a number."}, run(t, rules.Number, "abc", opts))
	})

	t.Run("bounds", func(t *testing.T) {
		opts := rules.Options{"min": 18, "max": 65.5}
		assert.Equal(t, rules.Messages{"17 is too small."}, run(t, rules.Number, "17", opts))
		assert.Equal(t, rules.Messages{"70 is too big."}, run(t, rules.Number, 70, opts))
		assert.Empty(t, run(t, rules.Number, "30", opts))
	})

	t.Run("integer only", func(t *testing.T) {
		opts := rules.Options{"integerOnly": true}
		assert.Len(t, run(t, rules.Number, "1.5", opts), 1)
		assert.Empty(t, run(t, rules.Number, " 15 ", opts))
	})

	t.Run("custom slash pattern", func(t *testing.T) {
		opts := rules.Options{"pattern": `/^\d{2}$/`}
		assert.Len(t, run(t, rules.Number, "123", opts), 1)
	})

	t.Run("broken pattern is a fault", func(t *testing.T) {
		_, err := rules.Number(context.Background(), "1", rules.Options{"pattern": "("})
		assert.ErrorIs(t, err, rules.ErrInvalidOption)
	})
}

func TestRange(t *testing.T) {
	opts := rules.Options{"range": []any{"a", "b", 3}}

	t.Run("in range", func(t *testing.T) {
		assert.Empty(t, run(t, rules.Range, "a", opts))
		assert.Empty(t, run(t, rules.Range, "3", opts))
	})

	t.Run("out of range", func(t *testing.T) {
		assert.Equal(t, rules.Messages{"z is invalid."}, run(t, rules.Range, "z", opts))
	})

	t.Run("lists need allowArray", func(t *testing.T) {
		assert.Len(t, run(t, rules.Range, []string{"a"}, opts), 1)

		allow := rules.Options{"range": []any{"a", "b"}, "allowArray": true}
		assert.Empty(t, run(t, rules.Range, []string{"a", "b"}, allow))
		assert.Len(t, run(t, rules.Range, []string{"a", "c"}, allow), 1)
	})

	t.Run("not inverts", func(t *testing.T) {
		not := rules.Options{"range": []string{"admin"}, "not": true}
		assert.Len(t, run(t, rules.Range, "admin", not), 1)
		assert.Empty(t, run(t, rules.Range, "user", not))
	})
}

func TestRegularExpression(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		opts := rules.Options{"pattern": "/^[a-z]+$/i"}
		assert.Empty(t, run(t, rules.RegularExpression, "ABC", opts))
		assert.Len(t, run(t, rules.RegularExpression, "ab1", opts), 1)
	})

	t.Run("not", func(t *testing.T) {
		opts := rules.Options{"pattern": `\d`, "not": true}
		assert.Len(t, run(t, rules.RegularExpression, "a1", opts), 1)
		assert.Empty(t, run(t, rules.RegularExpression, "ab", opts))
	})

	t.Run("unsupported flag", func(t *testing.T) {
		_, err := rules.RegularExpression(context.Background(), "a", rules.Options{"pattern": "/a/x"})
		assert.ErrorIs(t, err, rules.ErrInvalidOption)
	})
}

func TestEmail(t *testing.T) {
	t.Run("plain address", func(t *testing.T) {
		assert.Empty(t, run(t, rules.Email, "john@example.com", nil))
		assert.Equal(t, rules.Messages{"john@ is not a valid email address."}, run(t, rules.Email, "john@", nil))
		assert.Len(t, run(t, rules.Email, "not an email", nil), 1)
	})

	t.Run("name requires allowName", func(t *testing.T) {
		v := "John Doe <john@example.com>"
		assert.Len(t, run(t, rules.Email, v, nil), 1)
		assert.Empty(t, run(t, rules.Email, v, rules.Options{"allowName": true}))
	})

	t.Run("local part limit", func(t *testing.T) {
		local := make([]byte, 65)
		for i := range local {
			local[i] = 'a'
		}
		assert.Len(t, run(t, rules.Email, string(local)+"@example.com", nil), 1)
	})

	t.Run("IDN domain", func(t *testing.T) {
		v := "user@bücher.example"
		assert.Len(t, run(t, rules.Email, v, nil), 1)
		assert.Empty(t, run(t, rules.Email, v, rules.Options{"enableIDN": true}))
	})
}

func TestURL(t *testing.T) {
	t.Run("absolute URLs", func(t *testing.T) {
		assert.Empty(t, run(t, rules.URL, "https://example.com/path?q=1", nil))
		assert.Empty(t, run(t, rules.URL, "HTTP://EXAMPLE.COM", nil))
		assert.Len(t, run(t, rules.URL, "ftp://example.com", nil), 1)
		assert.Len(t, run(t, rules.URL, "example.com", nil), 1)
	})

	t.Run("default scheme", func(t *testing.T) {
		assert.Empty(t, run(t, rules.URL, "example.com", rules.Options{"defaultScheme": "http"}))
	})

	t.Run("IDN host", func(t *testing.T) {
		v := "http://bücher.example"
		assert.Len(t, run(t, rules.URL, v, nil), 1)
		assert.Empty(t, run(t, rules.URL, v, rules.Options{"enableIDN": true}))
	})
}

func TestCaptcha(t *testing.T) {
	// "abc" -> 97+98+99
	opts := rules.Options{"hash": 294}
	assert.Empty(t, run(t, rules.Captcha, "ABC", opts))
	assert.Len(t, run(t, rules.Captcha, "ABC", rules.Options{"hash": 294, "caseSensitive": true}), 1)
	assert.Equal(t, rules.Messages{"The verification code is incorrect."}, run(t, rules.Captcha, "abd", opts))
}

func TestCompare(t *testing.T) {
	t.Run("string equality by default", func(t *testing.T) {
		opts := rules.Options{"compareValue": "secret"}
		assert.Empty(t, run(t, rules.Compare, "secret", opts))
		assert.Len(t, run(t, rules.Compare, "other", opts), 1)
	})

	t.Run("numeric operators", func(t *testing.T) {
		cases := []struct {
			operator string
			value    string
			valid    bool
		}{
			{">", "11", true},
			{">", "10", false},
			{">=", "10", true},
			{"<", "9.5", true},
			{"<=", "10.0", true},
			{"!=", "10", false},
			{"==", "10.0", true},
			{"===", "10", true},
			{"bogus", "10", false},
		}
		for _, tc := range cases {
			opts := rules.Options{"compareValue": 10, "type": "number", "operator": tc.operator}
			msgs := run(t, rules.Compare, tc.value, opts)
			assert.Equal(t, tc.valid, len(msgs) == 0, "%s %s 10", tc.value, tc.operator)
		}
	})

	t.Run("strict equality checks type", func(t *testing.T) {
		opts := rules.Options{"compareValue": 1, "operator": "==="}
		assert.Len(t, run(t, rules.Compare, "1", opts), 1)
	})

	t.Run("non numeric input never equals", func(t *testing.T) {
		opts := rules.Options{"compareValue": 1, "type": "number"}
		assert.Len(t, run(t, rules.Compare, "abc", opts), 1)
	})
}

func TestIP(t *testing.T) {
	t.Run("v4 and v6", func(t *testing.T) {
		assert.Empty(t, run(t, rules.IP, "192.168.0.1", nil))
		assert.Empty(t, run(t, rules.IP, "2001:db8::1", nil))
		assert.Equal(t, rules.Messages{"300.1.1.1 must be a valid IP address."}, run(t, rules.IP, "300.1.1.1", nil))
	})

	t.Run("version restrictions", func(t *testing.T) {
		assert.Equal(t, rules.Messages{"::1 must not be an IPv6 address."}, run(t, rules.IP, "::1", rules.Options{"ipv6": false}))
		assert.Len(t, run(t, rules.IP, "10.0.0.1", rules.Options{"ipv4": false}), 1)
	})

	t.Run("subnet", func(t *testing.T) {
		assert.Equal(t, rules.Messages{"10.0.0.1 must be an IP address with specified subnet."},
			run(t, rules.IP, "10.0.0.1", rules.Options{"subnet": true}))
		assert.Len(t, run(t, rules.IP, "10.0.0.0/8", rules.Options{"subnet": false}), 1)
		assert.Empty(t, run(t, rules.IP, "10.0.0.0/8", nil))
	})

	t.Run("negation", func(t *testing.T) {
		assert.Len(t, run(t, rules.IP, "!10.0.0.1", nil), 1)
		assert.Empty(t, run(t, rules.IP, "!10.0.0.1", rules.Options{"negation": true}))
	})

	t.Run("custom messages", func(t *testing.T) {
		opts := rules.Options{"messages": map[string]any{"message": "bad ip {value}"}}
		assert.Equal(t, rules.Messages{"bad ip nope"}, run(t, rules.IP, "nope", opts))
	})
}
