package service

import (
	"crypto/ecdh"
	"crypto/ecdsa"
)

// Crypto is the primitive set behind VAPID signing and push payload encryption.
// Implementations must be safe for concurrent use.
type Crypto interface {
	// RandomBytes returns n bytes from the configured randomness source.
	RandomBytes(n int) ([]byte, error)

	// GenerateKey creates an ephemeral P-256 key for one message.
	GenerateKey() (*ecdh.PrivateKey, error)

	// DeriveSharedSecret runs ECDH between the local private key and the peer public key.
	DeriveSharedSecret(private *ecdh.PrivateKey, peer *ecdh.PublicKey) ([]byte, error)

	// HKDF derives length bytes with HMAC-SHA-256.
	HKDF(salt, ikm, info []byte, length int) ([]byte, error)

	// AEADEncrypt seals plaintext with AES-128-GCM and no additional data.
	AEADEncrypt(key, nonce, plaintext []byte) ([]byte, error)

	// Sign returns the raw r||s ECDSA P-256 signature over SHA-256(message).
	Sign(key *ecdsa.PrivateKey, message []byte) ([]byte, error)
}
