package utils

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short opaque identifier suitable for shareable URLs.
func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// ShareSlug builds a URL-friendly slug from a poll title, e.g.
// "Team Sync (Q3)" -> "team-sync-q3". Falls back to "poll" for titles that
// slugify to nothing.
func ShareSlug(title string) string {
	s := slug.Make(strings.TrimSpace(title))
	if s == "" {
		return "poll"
	}
	return s
}

// GenerateRandomString generates a cryptographically secure random string
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to nanoid if crypto/rand fails
		id, _ := gonanoid.Generate(idAlphabet, length)
		return id
	}
	return base64.URLEncoding.EncodeToString(bytes)[:length]
}
