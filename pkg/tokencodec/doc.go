// Package tokencodec encrypts token values for storage outside the process,
// typically in HTTP cookies that the browser can read.
//
// The key is derived from the OAuth client secret, right-padded or truncated
// to 32 bytes. Values are encrypted with AES-256-CBC under a fresh random IV
// that is prepended to the ciphertext, and the whole blob is encoded with
// unpadded URL-safe base64 so it is safe as a cookie or header value.
//
// The codec is deliberately not tamper-proof: CBC offers no authentication.
// Decoded values are opaque credentials that the identity provider validates
// on use, so integrity of origin is enforced server-side.
package tokencodec
