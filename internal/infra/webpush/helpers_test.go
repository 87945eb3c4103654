package webpush

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	stdhkdf "crypto/hkdf"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	mathrand "math/rand/v2"
	"strings"
	"testing"

	"alerts/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

// subscriber mimics a browser: it owns the p256dh private key and the auth secret.
type subscriber struct {
	private *ecdh.PrivateKey
	auth    []byte
	keys    entity.PushKeys
}

func newSubscriber(t *testing.T) *subscriber {
	t.Helper()

	private, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	auth := make([]byte, authSize)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	return &subscriber{
		private: private,
		auth:    auth,
		keys: entity.PushKeys{
			P256dh: encodeBase64URL(private.PublicKey().Bytes()),
			Auth:   encodeBase64URL(auth),
		},
	}
}

func newVAPIDKeyPair(t *testing.T) (publicKey, privateKey string) {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)

	return encodeBase64URL(key.PublicKey().Bytes()), encodeBase64URL(key.Bytes())
}

func seededReader(seed byte) *mathrand.ChaCha8 {
	var s [32]byte
	s[0] = seed

	return mathrand.NewChaCha8(s)
}

func deriveKey(t *testing.T, secret, salt []byte, info []byte, length int) []byte {
	t.Helper()

	key, err := stdhkdf.Key(sha256.New, secret, salt, string(info), length)
	require.NoError(t, err)

	return key
}

func openGCM(t *testing.T, key, nonce, ciphertext []byte) []byte {
	t.Helper()

	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	require.NoError(t, err)

	return plaintext
}

// decryptAES128GCM is the user agent side of RFC 8291 for a single record.
func (s *subscriber) decryptAES128GCM(t *testing.T, body []byte) []byte {
	t.Helper()
	require.Greater(t, len(body), headerLength)

	salt := body[:saltSize]
	require.Equal(t, uint32(recordSize), binary.BigEndian.Uint32(body[saltSize:saltSize+4]))
	idLen := int(body[saltSize+4])
	keyID := body[saltSize+5 : saltSize+5+idLen]
	ciphertext := body[saltSize+5+idLen:]

	serverPublic, err := ecdh.P256().NewPublicKey(keyID)
	require.NoError(t, err)
	secret, err := s.private.ECDH(serverPublic)
	require.NoError(t, err)

	uaPublic := s.private.PublicKey().Bytes()
	info := append(append([]byte("WebPush: info\x00"), uaPublic...), keyID...)
	ikm := deriveKey(t, secret, s.auth, info, 32)
	cek := deriveKey(t, ikm, salt, []byte("Content-Encoding: aes128gcm\x00"), 16)
	nonce := deriveKey(t, ikm, salt, []byte("Content-Encoding: nonce\x00"), 12)

	record := openGCM(t, cek, nonce, ciphertext)
	record = bytes.TrimRight(record, "\x00")
	require.NotEmpty(t, record)
	require.Equal(t, byte(0x02), record[len(record)-1], "last record delimiter")

	return record[:len(record)-1]
}

// decryptAESGCM is the user agent side of the legacy aesgcm framing.
func (s *subscriber) decryptAESGCM(t *testing.T, salt, serverPublicRaw, ciphertext []byte) []byte {
	t.Helper()

	serverPublic, err := ecdh.P256().NewPublicKey(serverPublicRaw)
	require.NoError(t, err)
	secret, err := s.private.ECDH(serverPublic)
	require.NoError(t, err)

	prk := deriveKey(t, secret, s.auth, []byte("Content-Encoding: auth\x00"), 32)

	uaPublic := s.private.PublicKey().Bytes()
	keyContext := []byte("P-256\x00")
	keyContext = binary.BigEndian.AppendUint16(keyContext, uint16(len(uaPublic)))
	keyContext = append(keyContext, uaPublic...)
	keyContext = binary.BigEndian.AppendUint16(keyContext, uint16(len(serverPublicRaw)))
	keyContext = append(keyContext, serverPublicRaw...)

	cek := deriveKey(t, prk, salt, append([]byte("Content-Encoding: aesgcm\x00"), keyContext...), 16)
	nonce := deriveKey(t, prk, salt, append([]byte("Content-Encoding: nonce\x00"), keyContext...), 12)

	padded := openGCM(t, cek, nonce, ciphertext)
	require.GreaterOrEqual(t, len(padded), 2)
	padLen := int(binary.BigEndian.Uint16(padded[:2]))

	return padded[2+padLen:]
}

// headerParam extracts name=value from a "; " separated header such as Crypto-Key.
func headerParam(t *testing.T, header, name string) []byte {
	t.Helper()

	for _, part := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && key == name {
			decoded, err := decodeBase64URL(value)
			require.NoError(t, err)

			return decoded
		}
	}
	t.Fatalf("header %q has no %s parameter", header, name)

	return nil
}
