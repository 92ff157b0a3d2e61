package tokencodec

import "errors"

var (
	// ErrEmptyValue is returned for empty input so callers can treat an
	// absent persistence slot uniformly with an empty one.
	ErrEmptyValue = errors.New("tokencodec: empty value")

	ErrEncodingFailed    = errors.New("tokencodec: encoding failed")
	ErrDecodingFailed    = errors.New("tokencodec: decoding failed")
	ErrInvalidCiphertext = errors.New("tokencodec: invalid ciphertext format")
)
