package tokencodec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

const keySize = 32 // AES-256

// Codec encrypts token values for storage in a client-readable slot such as a
// cookie. The output is URL-safe so it can travel in cookie and header values
// without further escaping.
//
// CBC mode provides confidentiality only. A client can flip ciphertext bits
// without detection, so decoded values must never be trusted beyond being an
// opaque credential that the provider will re-validate.
type Codec struct {
	key []byte
}

// New derives the symmetric key from the OAuth client secret: trimmed, then
// right-padded with zero bytes or truncated to exactly 32 bytes.
func New(clientSecret string) *Codec {
	key := make([]byte, keySize)
	copy(key, strings.TrimSpace(clientSecret))
	return &Codec{key: key}
}

// Encode encrypts the plaintext with AES-256-CBC using a fresh random IV,
// prepends the IV to the ciphertext and encodes the result with unpadded
// URL-safe base64. Empty input returns ErrEmptyValue so callers can treat
// "slot absent" uniformly.
func (c *Codec) Encode(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyValue
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.Join(ErrEncodingFailed, err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrEncodingFailed, err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Decode reverses Encode: URL-safe base64 decode, split the IV from the
// ciphertext, decrypt and strip the padding.
func (c *Codec) Decode(encoded string) (string, error) {
	if encoded == "" {
		return "", ErrEmptyValue
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	if len(raw) < aes.BlockSize || (len(raw)-aes.BlockSize)%aes.BlockSize != 0 || len(raw) == aes.BlockSize {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.Join(ErrDecodingFailed, err)
	}

	iv, ciphertext := raw[:aes.BlockSize], raw[aes.BlockSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(unpadded)), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidCiphertext
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrDecodingFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecodingFailed
		}
	}
	return data[:len(data)-n], nil
}
