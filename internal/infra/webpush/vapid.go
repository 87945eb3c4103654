package webpush

import (
	"bytes"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"net/url"
	"strings"
	"time"

	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
	"alerts/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingOrigin = errors.New("endpoint has no scheme or host")

const (
	assertionLifetime   = 12 * time.Hour
	uncompressedKeySize = 65
	privateScalarSize   = 32
)

// Signer produces VAPID assertions (RFC 8292) for push service origins.
type Signer struct {
	crypto  service.Crypto
	subject string
	now     func() time.Time
}

// NewSigner creates a signer that names subject (a mailto: or https: contact) in every assertion.
func NewSigner(crypto service.Crypto, subject string) *Signer {
	return &Signer{
		crypto:  crypto,
		subject: subject,
		now:     time.Now,
	}
}

// SignAssertion returns a compact ES256 JWT for audience, valid for twelve hours.
// Keys are the base64url uncompressed public point and raw private scalar; they are
// parsed on every call so rotated configuration takes effect immediately.
func (s *Signer) SignAssertion(audience, publicKey, privateKey string) (string, error) {
	key, err := ParseVAPIDKeys(publicKey, privateKey)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"aud": audience,
		"exp": s.now().Add(assertionLifetime).Unix(),
		"sub": s.subject,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signingString, err := token.SigningString()
	if err != nil {
		return "", &domainerrors.SigningError{Reason: "encode claims", Err: err}
	}

	signature, err := s.crypto.Sign(key, []byte(signingString))
	if err != nil {
		return "", &domainerrors.SigningError{Reason: "sign", Err: err}
	}

	return signingString + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// ParseVAPIDKeys imports a VAPID key pair and checks that both halves belong together.
func ParseVAPIDKeys(publicKey, privateKey string) (*ecdsa.PrivateKey, error) {
	pub, err := decodeBase64URL(publicKey)
	if err != nil {
		return nil, &domainerrors.SigningError{Reason: "decode public key", Err: err}
	}
	if len(pub) != uncompressedKeySize || pub[0] != 0x04 {
		return nil, &domainerrors.SigningError{Reason: "public key must be a 65-byte uncompressed P-256 point"}
	}

	scalar, err := decodeBase64URL(privateKey)
	if err != nil {
		return nil, &domainerrors.SigningError{Reason: "decode private key", Err: err}
	}
	if len(scalar) != privateScalarSize {
		return nil, &domainerrors.SigningError{Reason: "private key must be a 32-byte P-256 scalar"}
	}

	ecdhKey, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, &domainerrors.SigningError{Reason: "invalid private scalar", Err: err}
	}
	if !bytes.Equal(ecdhKey.PublicKey().Bytes(), pub) {
		return nil, &domainerrors.SigningError{Reason: "private key does not match public key"}
	}

	key, err := ecdsa.ParseRawPrivateKey(elliptic.P256(), scalar)
	if err != nil {
		return nil, &domainerrors.SigningError{Reason: "import private key", Err: err}
	}

	return key, nil
}

// AudienceFor returns the origin of a push endpoint, the only valid VAPID audience for it.
func AudienceFor(endpoint string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.Wrapf(errMissingOrigin, "endpoint %q", endpoint)
	}

	return parsed.Scheme + "://" + parsed.Host, nil
}

// decodeBase64URL accepts padded or unpadded input in either base64 alphabet.
func decodeBase64URL(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimRight(value, "=")
	value = strings.NewReplacer("+", "-", "/", "_").Replace(value)

	return base64.RawURLEncoding.DecodeString(value)
}

func encodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
