package field

import (
	"io"
	"strings"

	"github.com/a-h/templ"
)

type attr struct {
	key   string
	value string
	bare  bool
}

// attrs keeps insertion order so markup is stable.
type attrs []attr

func (a attrs) set(key, value string) attrs {
	return append(a, attr{key: key, value: value})
}

// opt adds key only when value is not empty.
func (a attrs) opt(key, value string) attrs {
	if value == "" {
		return a
	}
	return a.set(key, value)
}

func (a attrs) flag(key string, on bool) attrs {
	if !on {
		return a
	}
	return append(a, attr{key: key, bare: true})
}

func (a attrs) String() string {
	var b strings.Builder
	for _, at := range a {
		b.WriteByte(' ')
		b.WriteString(at.key)
		if at.bare {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(templ.EscapeString(at.value))
		b.WriteByte('"')
	}
	return b.String()
}

// htmlWriter accumulates the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *htmlWriter) open(tag string, a attrs) { h.raw("<" + tag + a.String() + ">") }

func (h *htmlWriter) close(tag string) { h.raw("</" + tag + ">") }

// element writes <tag attrs>text</tag>.
func (h *htmlWriter) element(tag string, a attrs, text string) {
	h.open(tag, a)
	h.text(text)
	h.close(tag)
}
