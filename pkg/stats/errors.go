package stats

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown statistics kind")
	ErrUnknownHandler = errors.New("statistics handler not found")
	ErrEncodeFailed   = errors.New("failed to encode statistics")
)
