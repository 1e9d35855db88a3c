// Package kv defines the string-keyed blob store the ledger persists into.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by adapters used after Close.
var ErrClosed = errors.New("kv store closed")

type (
	// Store is a get/set key-value store holding opaque blobs.
	Store interface {
		// Read returns the blob stored under key. ok is false when the key is absent.
		Read(ctx context.Context, key string) (value []byte, ok bool, err error)
		// Write replaces the blob stored under key.
		Write(ctx context.Context, key string, value []byte) error
	}

	// Pinger is implemented by stores that can report their reachability.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)
