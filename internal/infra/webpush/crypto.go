// Package webpush implements VAPID signing, RFC 8291 payload encryption and delivery to push services.
package webpush

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"alerts/internal/domain/service"
	"alerts/internal/errors"

	"golang.org/x/crypto/hkdf"
)

const maxKeyAttempts = 8

type stdCrypto struct {
	random io.Reader
}

// NewCrypto returns the production primitives backed by crypto/rand.
func NewCrypto() service.Crypto {
	return &stdCrypto{random: rand.Reader}
}

// NewCryptoWithReader returns primitives drawing all randomness from r.
func NewCryptoWithReader(r io.Reader) service.Crypto {
	return &stdCrypto{random: r}
}

func (c *stdCrypto) RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.random, buf); err != nil {
		return nil, errors.Wrap(err, "read random bytes")
	}

	return buf, nil
}

// GenerateKey draws scalars from the randomness source so tests can pin the ephemeral key.
func (c *stdCrypto) GenerateKey() (*ecdh.PrivateKey, error) {
	for range maxKeyAttempts {
		scalar, err := c.RandomBytes(32)
		if err != nil {
			return nil, err
		}

		key, err := ecdh.P256().NewPrivateKey(scalar)
		if err == nil {
			return key, nil
		}
	}

	return nil, errors.New("could not generate a valid P-256 scalar")
}

func (c *stdCrypto) DeriveSharedSecret(private *ecdh.PrivateKey, peer *ecdh.PublicKey) ([]byte, error) {
	secret, err := private.ECDH(peer)
	if err != nil {
		return nil, errors.Wrap(err, "ecdh")
	}

	return secret, nil
}

func (c *stdCrypto) HKDF(salt, ikm, info []byte, length int) ([]byte, error) {
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), out); err != nil {
		return nil, errors.Wrap(err, "hkdf expand")
	}

	return out, nil
}

func (c *stdCrypto) AEADEncrypt(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm mode")
	}

	if len(nonce) != gcm.NonceSize() {
		return nil, errors.Errorf("nonce must be %d bytes, got %d", gcm.NonceSize(), len(nonce))
	}

	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func (c *stdCrypto) Sign(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	r, s, err := ecdsa.Sign(c.random, key, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "ecdsa sign")
	}

	signature := make([]byte, 64)
	r.FillBytes(signature[:32])
	s.FillBytes(signature[32:])

	return signature, nil
}
