package field

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrymomot/activeform/pkg/rules"
)

// Signals is the datastar signal payload posted by the browser.
type Signals map[string]any

func decodeString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(raw)
}

func decodeBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b || v == "on"
	}
	return false
}

func decodeList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, decodeString(item))
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	}
	return []string{decodeString(raw)}
}

// decodeFiles reads datastar file bindings: base64 contents under the
// attribute signal, MIME types and names under <attribute>Mimes and
// <attribute>Names.
func decodeFiles(attribute string, s Signals) ([]rules.Upload, error) {
	contents := decodeList(s[attribute])
	mimes := decodeList(s[attribute+"Mimes"])
	names := decodeList(s[attribute+"Names"])

	uploads := make([]rules.Upload, 0, len(contents))
	for i, content := range contents {
		if content == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: file %d: %w", ErrInvalidValue, attribute, i, err)
		}
		up := rules.Upload{
			Size: int64(len(data)),
			Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
		}
		if i < len(mimes) {
			up.Type = mimes[i]
		}
		if i < len(names) {
			up.Name = names[i]
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}
