// Package cipher implements the symmetric payload cipher used for
// client-side message confidentiality.
//
// Wire format: base64(nonce[12] || AES-256-GCM ciphertext). A fresh random
// nonce is generated per call and prepended to the sealed bytes.
//
// SECURITY NOTE: the key is derived from the sender's raw account password by
// padding/truncating it to 32 bytes. This is not a sound KDF and is kept
// deliberately to match the deployed protocol; both ends must derive the same
// key from the same credential. Confidentiality here is best-effort, not a
// guarantee against an adversary who can guess passwords.
package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

const (
	keySize   = 32
	nonceSize = 12

	// fillerByte pads short key material on the right.
	fillerByte = '0'
)

// DeriveKey stretches or truncates keyMaterial to a fixed-width AES-256 key.
// Short material is right-padded with fillerByte; long material is truncated.
func DeriveKey(keyMaterial string) []byte {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = fillerByte
	}
	copy(key, keyMaterial)
	return key
}

// Encrypt seals plaintext under the key derived from keyMaterial and returns
// the base64-encoded nonce||ciphertext blob.
func Encrypt(plainText, keyMaterial string) (string, error) {
	block, err := aes.NewCipher(DeriveKey(keyMaterial))
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plainText), nil)

	wire := make([]byte, 0, nonceSize+len(sealed))
	wire = append(wire, nonce...)
	wire = append(wire, sealed...)
	return base64.StdEncoding.EncodeToString(wire), nil
}

// Result is the outcome of a Decrypt call. Decryption fails open: callers get
// either the recovered plaintext or an explicit fallback signal, never an
// error to propagate or a panic.
type Result struct {
	// Plaintext is valid only when Decrypted is true.
	Plaintext string
	// Decrypted reports whether the blob authenticated and opened under the
	// supplied key. When false the caller must fall back to the record's
	// stored plaintext or mark the content unreadable.
	Decrypted bool
}

// Decrypt opens a blob produced by Encrypt. Any failure (bad base64, short
// blob, wrong key, tampered ciphertext) yields Result{Decrypted: false}.
func Decrypt(blob, keyMaterial string) Result {
	wire, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return Result{}
	}
	if len(wire) < nonceSize+1 {
		return Result{}
	}

	block, err := aes.NewCipher(DeriveKey(keyMaterial))
	if err != nil {
		return Result{}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return Result{}
	}

	plain, err := aead.Open(nil, wire[:nonceSize], wire[nonceSize:], nil)
	if err != nil {
		return Result{}
	}
	return Result{Plaintext: string(plain), Decrypted: true}
}
