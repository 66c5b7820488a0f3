package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"
)

func sanitizePathSegment(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	builder.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			builder.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			builder.WriteByte(ch + 32)
		case ch == '-', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

func normalizeExtension(ext string) string {
	trimmed := sanitizePathSegment(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if trimmed == "" {
		return "json"
	}
	return trimmed
}

func sanitizeFileBase(value string) string {
	replaced := strings.ReplaceAll(strings.TrimSpace(value), " ", "-")
	return strings.Trim(sanitizePathSegment(replaced), "-_")
}

// objectKey 生成 <category>/<yyyy>/<mm>/<dd>/<base>.<ext>
func objectKey(opts SaveOptions) string {
	at := opts.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	category := sanitizePathSegment(opts.Category)
	if category == "" {
		category = "reports"
	}
	base := sanitizeFileBase(opts.BaseName)
	if base == "" {
		base = fmt.Sprintf("%d", at.UnixNano())
	}
	datedir := fmt.Sprintf("%04d/%02d/%02d", at.Year(), at.Month(), at.Day())
	return path.Join(category, datedir, base+"."+normalizeExtension(opts.Extension))
}

func prefixedKey(prefix string, opts SaveOptions) string {
	key := objectKey(opts)
	if clean := trimPrefix(prefix); clean != "" {
		return path.Join(clean, key)
	}
	return key
}

func detectContentType(ext string) string {
	typeName := mime.TypeByExtension("." + normalizeExtension(ext))
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}
