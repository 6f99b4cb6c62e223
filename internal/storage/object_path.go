package storage

import (
	"errors"
	"mime"
	"path"
	"strings"
)

var errInvalidKey = errors.New("storage: invalid document key")

// normalizeKey cleans a document key into a relative slash separated path.
// Keys that would escape the storage root are rejected.
func normalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	trimmed = strings.TrimLeft(trimmed, "/")
	if trimmed == "" {
		return "", errInvalidKey
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errInvalidKey
	}
	return cleaned, nil
}

func detectContentType(key string) string {
	ext := path.Ext(key)
	if ext == "" {
		return "application/octet-stream"
	}
	typeName := mime.TypeByExtension(ext)
	if typeName == "" {
		return "application/octet-stream"
	}
	return typeName
}

func objectKey(prefix, key string) (string, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	return joinPrefix(prefix, normalized), nil
}

func joinPrefix(prefix, key string) string {
	cleanPrefix := trimPrefix(prefix)
	if cleanPrefix == "" {
		return strings.TrimLeft(key, "/")
	}
	return path.Join(cleanPrefix, strings.TrimLeft(key, "/"))
}

func trimPrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}
