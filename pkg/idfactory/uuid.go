package idfactory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// UUID produces random (v4) or time-ordered (v7) UUID strings.
type UUID struct {
	v7 bool
}

// UUIDOption configures a UUID factory.
type UUIDOption func(*UUID)

// WithUUIDv7 switches to time-ordered version 7 UUIDs, which sort by
// creation time and index well.
func WithUUIDv7() UUIDOption {
	return func(u *UUID) { u.v7 = true }
}

func NewUUID(opts ...UUIDOption) *UUID {
	u := &UUID{}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *UUID) NewStringID(context.Context) (string, error) {
	if !u.v7 {
		return uuid.NewString(), nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Join(ErrGenerateID, err)
	}
	return id.String(), nil
}
