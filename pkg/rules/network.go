package rules

import (
	"context"
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

const (
	emailAtom = "[a-zA-Z0-9!#$%&'*+\\/=?^_`{|}~-]+"
	emailHost = `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?`

	defaultEmailPattern     = `^` + emailAtom + `(?:\.` + emailAtom + `)*@` + emailHost + `$`
	defaultEmailFullPattern = `^[^@]*<` + emailAtom + `(?:\.` + emailAtom + `)*@` + emailHost + `>$`
	defaultURLPattern       = `/^(http|https):\/\/(([A-Z0-9][A-Z0-9_-]*)(\.[A-Z0-9][A-Z0-9_-]*)+)(?::\d{1,5})?(?:$|[?\/#])/i`
	defaultIPParsePattern   = `^(!?)(.+?)(\/(\d+))?$`

	maxEmailLocalPart = 64
	maxEmailLength    = 254

	defaultEmailMessage   = "{value} is not a valid email address."
	defaultURLMessage     = "{value} is not a valid URL."
	defaultIPMessage      = "{value} must be a valid IP address."
	defaultNoSubnet       = "{value} must be an IP address with specified subnet."
	defaultHasSubnet      = "{value} must not be a subnet."
	defaultIPv6NotAllowed = "{value} must not be an IPv6 address."
	defaultIPv4NotAllowed = "{value} must not be an IPv4 address."
)

var (
	emailParts = regexp.MustCompile(`^((?:"?([^"]*)"?\s)?)(?:\s+)?(?:(<?)((.+)@([^>]+))(>?))$`)
	urlParts   = regexp.MustCompile(`^([^:]+)://([^/]+)(.*)$`)
)

// Email checks the value is an email address, optionally "Name <addr>" when
// allowName is set. With enableIDN the local part and domain are converted to
// punycode before matching.
//
// Options: skipOnEmpty, enableIDN, pattern, allowName, fullPattern, message.
func Email(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	pattern, err := opts.Pattern("pattern", defaultEmailPattern)
	if err != nil {
		return nil, err
	}
	fullPattern, err := opts.Pattern("fullPattern", defaultEmailFullPattern)
	if err != nil {
		return nil, err
	}

	s := stringify(value)
	valid := false
	if m := emailParts.FindStringSubmatch(s); m != nil {
		local, domain := m[5], m[6]
		if opts.Bool("enableIDN", false) {
			local = toASCII(local)
			domain = toASCII(domain)
			s = m[1] + m[3] + local + "@" + domain + m[7]
		}

		switch {
		case len(local) > maxEmailLocalPart:
		case len(local+"@"+domain) > maxEmailLength:
		default:
			valid = pattern.MatchString(s) || (opts.Bool("allowName", false) && fullPattern.MatchString(s))
		}
	}

	if !valid {
		return one(opts.String("message", defaultEmailMessage), value), nil
	}
	return nil, nil
}

// URL checks the value is an absolute URL. defaultScheme is prepended when
// the value has none.
//
// Options: skipOnEmpty, enableIDN, defaultScheme, pattern, message.
func URL(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	pattern, err := opts.Pattern("pattern", defaultURLPattern)
	if err != nil {
		return nil, err
	}

	s := stringify(value)
	if scheme := opts.String("defaultScheme", ""); scheme != "" && !strings.Contains(s, "://") {
		s = scheme + "://" + s
	}

	valid := true
	if opts.Bool("enableIDN", false) {
		if m := urlParts.FindStringSubmatch(s); m == nil {
			valid = false
		} else {
			s = m[1] + "://" + toASCII(m[2]) + m[3]
		}
	}

	if !valid || !pattern.MatchString(s) {
		return one(opts.String("message", defaultURLMessage), value), nil
	}
	return nil, nil
}

// IP checks the value is an IPv4 or IPv6 address, with optional "!" negation
// prefix and "/bits" subnet suffix.
//
// Options: skipOnEmpty, ipv4 (default true), ipv6 (default true), subnet
// (unset allows both), negation, messages{message, noSubnet, hasSubnet,
// ipv4NotAllowed, ipv6NotAllowed}.
func IP(_ context.Context, value any, opts Options) (Messages, error) {
	if opts.Bool("skipOnEmpty", false) && IsEmpty(value) {
		return nil, nil
	}

	parse, err := opts.Pattern("ipParsePattern", defaultIPParsePattern)
	if err != nil {
		return nil, err
	}
	texts := opts.Sub("messages")

	s := stringify(value)
	var negation, cidr string
	if m := parse.FindStringSubmatch(s); m != nil {
		negation, s, cidr = m[1], m[2], m[4]
	}

	if opts.Has("subnet") {
		if opts.Bool("subnet", false) && cidr == "" {
			return one(texts.String("noSubnet", defaultNoSubnet), s), nil
		}
		if !opts.Bool("subnet", true) && cidr != "" {
			return one(texts.String("hasSubnet", defaultHasSubnet), s), nil
		}
	}
	if !opts.Bool("negation", false) && negation != "" {
		return one(texts.String("message", defaultIPMessage), s), nil
	}

	var msgs Messages
	addr, err := netip.ParseAddr(s)
	if strings.Contains(s, ":") {
		if err != nil || !addr.Is6() {
			msgs = append(msgs, prepare(texts.String("message", defaultIPMessage), s))
		}
		if !opts.Bool("ipv6", true) {
			msgs = append(msgs, prepare(texts.String("ipv6NotAllowed", defaultIPv6NotAllowed), s))
		}
	} else {
		if err != nil || !addr.Is4() {
			msgs = append(msgs, prepare(texts.String("message", defaultIPMessage), s))
		}
		if !opts.Bool("ipv4", true) {
			msgs = append(msgs, prepare(texts.String("ipv4NotAllowed", defaultIPv4NotAllowed), s))
		}
	}
	return msgs, nil
}

// toASCII converts non-ASCII labels to punycode and leaves the rest intact.
func toASCII(s string) string {
	out, err := idna.Punycode.ToASCII(s)
	if err != nil {
		return s
	}
	return out
}
