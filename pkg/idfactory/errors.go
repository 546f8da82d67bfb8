package idfactory

import "errors"

var (
	ErrNegativeStartID = errors.New("start id must not be negative")
	ErrEmptyRedisKey   = errors.New("redis counter key must not be empty")
	ErrGenerateID      = errors.New("failed to generate id")
)
