// Package schemas embeds the JSON Schema documents that model output is checked against.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// ProfileExtraction is the schema for profile datasets produced by document extraction.
const ProfileExtraction = "profile_extraction.schema.json"

// Get returns the raw content of an embedded schema.
func Get(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return string(data), nil
}

// MustGet returns the raw content of an embedded schema, panicking if it is missing.
func MustGet(name string) string {
	s, err := Get(name)
	if err != nil {
		panic(err)
	}
	return s
}
