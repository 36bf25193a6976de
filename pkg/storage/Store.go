package storage

import (
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

/*
Store is a durable, string-keyed value store. Each Store is scoped to a
single namespace so keys from different concerns never collide.
*/
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error

	// Replace overwrites an existing key without moving it in Keys. It
	// returns ErrNotFound when the key is absent.
	Replace(key, value string) error

	// Keys returns every key in the namespace, least recently written first.
	Keys() ([]string, error)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
