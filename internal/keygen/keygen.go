// Package keygen provides globally unique field key generation backed by nanoid.
package keygen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix is prepended to every generated field key.
var Prefix = "fk-"

// Alphabet defines the character set used for the random portion of the key.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 21

// NewFieldKey returns a new field key using the default prefix.
func NewFieldKey() (string, error) {
	return NewFieldKeyWithPrefix(Prefix)
}

// NewFieldKeyWithPrefix returns a new field key with the given prefix.
func NewFieldKeyWithPrefix(prefix string) (string, error) {
	key, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("keygen: %w", err)
	}
	return prefix + key, nil
}
