// Package id provides utilities for generating URL-safe identifiers.
//
// Identifiers are UUIDv4 bytes encoded as base32 (RFC 4648) with no padding.
// The resulting strings are 26 characters long, lowercase, and safe for use
// in URLs, SKUs, and slugs.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a new random identifier.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}

// NewShort returns the first n characters of a new identifier, for
// human-facing suffixes where collisions are tolerable.
func NewShort(n int) (string, error) {
	value, err := NewID()
	if err != nil {
		return "", err
	}
	if n <= 0 || n > len(value) {
		return value, nil
	}
	return value[:n], nil
}
