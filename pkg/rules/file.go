package rules

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrymomot/activeform/pkg/async"
)

const (
	defaultWrongExtension = "Only files with these extensions are allowed: {file}."
	defaultWrongMimeType  = "Only files with these MIME types are allowed: {file}."
	defaultFileTooBig     = "The file \"{file}\" is too big."
	defaultFileTooSmall   = "The file \"{file}\" is too small."
	defaultNotImage       = "The file \"{file}\" is not an image."
	defaultUnderWidth     = "The image \"{file}\" is too small. The width cannot be smaller than the limit."
	defaultOverWidth      = "The image \"{file}\" is too large. The width cannot be larger than the limit."
	defaultUnderHeight    = "The image \"{file}\" is too small. The height cannot be smaller than the limit."
	defaultOverHeight     = "The image \"{file}\" is too large. The height cannot be larger than the limit."
)

// Upload describes an uploaded file as seen by validators.
type Upload struct {
	Name string
	Type string // declared MIME type
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadFromHeader adapts a multipart file header.
func UploadFromHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Name: fh.Filename,
		Type: fh.Header.Get("Content-Type"),
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Uploads normalizes a file attribute value into a list.
func Uploads(value any) []Upload {
	switch v := value.(type) {
	case Upload:
		return []Upload{v}
	case *Upload:
		if v != nil {
			return []Upload{*v}
		}
	case []Upload:
		return v
	case *multipart.FileHeader:
		if v != nil {
			return []Upload{UploadFromHeader(v)}
		}
	case []*multipart.FileHeader:
		out := make([]Upload, 0, len(v))
		for _, fh := range v {
			if fh != nil {
				out = append(out, UploadFromHeader(fh))
			}
		}
		return out
	}
	return nil
}

// File checks every upload's extension, MIME type and size.
//
// Options: extensions, wrongExtension, mimeTypes (patterns), wrongMimeType,
// maxSize, tooBig, minSize, tooSmall.
func File(_ context.Context, value any, opts Options) (Messages, error) {
	var msgs Messages
	for _, f := range Uploads(value) {
		m, err := checkFile(f, opts)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m...)
	}
	return msgs, nil
}

// Image runs the File checks and then decodes each upload to check that it
// is an image within the configured dimensions. Uploads are decoded
// concurrently; messages keep upload order.
//
// Options: those of File plus notImage, minWidth, underWidth, maxWidth,
// overWidth, minHeight, underHeight, maxHeight, overHeight.
func Image(ctx context.Context, value any, opts Options) (Messages, error) {
	uploads := Uploads(value)
	futures := make([]*async.Future[Messages], len(uploads))
	for i, f := range uploads {
		futures[i] = async.Go(ctx, f, func(ctx context.Context, f Upload) (Messages, error) {
			fileMsgs, err := checkFile(f, opts)
			if err != nil {
				return nil, err
			}
			imageMsgs, err := checkImage(f, opts)
			if err != nil {
				return nil, err
			}
			return append(fileMsgs, imageMsgs...), nil
		})
	}

	results, err := async.All(ctx, futures...)
	if err != nil {
		return nil, err
	}
	var msgs Messages
	for _, r := range results {
		msgs = append(msgs, r...)
	}
	return msgs, nil
}

func checkFile(f Upload, opts Options) (Messages, error) {
	var msgs Messages
	name := func(message string) string {
		return strings.ReplaceAll(message, "{file}", f.Name)
	}

	if exts := opts.Strings("extensions"); len(exts) > 0 {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
		if !slices.Contains(exts, ext) {
			msgs = append(msgs, name(opts.String("wrongExtension", defaultWrongExtension)))
		}
	}

	if types := opts.Strings("mimeTypes"); len(types) > 0 {
		ok, err := matchMimeType(types, f.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			msgs = append(msgs, name(opts.String("wrongMimeType", defaultWrongMimeType)))
		}
	}

	if maxSize, ok := opts.Float("maxSize"); ok && maxSize > 0 && float64(f.Size) > maxSize {
		msgs = append(msgs, name(opts.String("tooBig", defaultFileTooBig)))
	}
	if minSize, ok := opts.Float("minSize"); ok && minSize > 0 && float64(f.Size) < minSize {
		msgs = append(msgs, name(opts.String("tooSmall", defaultFileTooSmall)))
	}
	return msgs, nil
}

func matchMimeType(patterns []string, fileType string) (bool, error) {
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return false, fmt.Errorf("%w: mime type pattern %q: %w", ErrInvalidOption, p, err)
		}
		if re.MatchString(fileType) {
			return true, nil
		}
	}
	return false, nil
}

func checkImage(f Upload, opts Options) (Messages, error) {
	name := func(message string) string {
		return strings.ReplaceAll(message, "{file}", f.Name)
	}
	if f.Open == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileUnreadable, f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileUnreadable, f.Name, err)
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return Messages{name(opts.String("notImage", defaultNotImage))}, nil
	}

	var msgs Messages
	if v, ok := opts.Int("minWidth"); ok && v > 0 && cfg.Width < v {
		msgs = append(msgs, name(opts.String("underWidth", defaultUnderWidth)))
	}
	if v, ok := opts.Int("maxWidth"); ok && v > 0 && cfg.Width > v {
		msgs = append(msgs, name(opts.String("overWidth", defaultOverWidth)))
	}
	if v, ok := opts.Int("minHeight"); ok && v > 0 && cfg.Height < v {
		msgs = append(msgs, name(opts.String("underHeight", defaultUnderHeight)))
	}
	if v, ok := opts.Int("maxHeight"); ok && v > 0 && cfg.Height > v {
		msgs = append(msgs, name(opts.String("overHeight", defaultOverHeight)))
	}
	return msgs, nil
}
