package webpush

import (
	"crypto/ecdh"
	"encoding/binary"

	"alerts/internal/domain/constants"
	"alerts/internal/domain/entity"
	domainerrors "alerts/internal/domain/errors"
	"alerts/internal/domain/service"
)

const (
	recordSize   = 4096
	saltSize     = 16
	authSize     = 16
	cekSize      = 16
	nonceSize    = 12
	gcmTagSize   = 16
	ikmSize      = 32
	lastRecord   = 0x02
	headerLength = saltSize + 4 + 1 + uncompressedKeySize
)

var (
	infoWebPush     = []byte("WebPush: info\x00")
	infoAES128GCM   = []byte("Content-Encoding: aes128gcm\x00")
	infoNonce       = []byte("Content-Encoding: nonce\x00")
	infoAuth        = []byte("Content-Encoding: auth\x00")
	infoAESGCM      = []byte("Content-Encoding: aesgcm\x00")
	curveContextTag = []byte("P-256\x00")
)

// Encrypted is one encrypted push message body plus the values its headers need.
type Encrypted struct {
	Encoding  string
	Body      []byte
	Salt      []byte
	PublicKey []byte // ephemeral application server public key
}

// Encryptor seals payloads for a subscription's p256dh/auth keys.
type Encryptor struct {
	crypto   service.Crypto
	encoding string
}

// NewEncryptor creates an encryptor for aes128gcm (RFC 8291) or the legacy aesgcm framing.
func NewEncryptor(crypto service.Crypto, encoding string) *Encryptor {
	if encoding != constants.ContentEncodingAESGCM {
		encoding = constants.ContentEncodingAES128GCM
	}

	return &Encryptor{crypto: crypto, encoding: encoding}
}

// Encoding returns the configured content encoding.
func (e *Encryptor) Encoding() string {
	return e.encoding
}

// Encrypt derives a fresh ephemeral key and salt and seals plaintext as a single record.
func (e *Encryptor) Encrypt(keys entity.PushKeys, plaintext []byte) (*Encrypted, error) {
	if len(plaintext) > recordSize-gcmTagSize-2 {
		return nil, &domainerrors.EncryptionError{Reason: "payload exceeds a single record"}
	}

	uaRaw, err := decodeBase64URL(keys.P256dh)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "decode p256dh", Err: err}
	}
	if len(uaRaw) != uncompressedKeySize {
		return nil, &domainerrors.EncryptionError{Reason: "p256dh must be a 65-byte uncompressed point"}
	}
	uaPublic, err := ecdh.P256().NewPublicKey(uaRaw)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "p256dh is not on P-256", Err: err}
	}

	auth, err := decodeBase64URL(keys.Auth)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "decode auth", Err: err}
	}
	if len(auth) != authSize {
		return nil, &domainerrors.EncryptionError{Reason: "auth secret must be 16 bytes"}
	}

	ephemeral, err := e.crypto.GenerateKey()
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "generate ephemeral key", Err: err}
	}
	asPublic := ephemeral.PublicKey().Bytes()

	secret, err := e.crypto.DeriveSharedSecret(ephemeral, uaPublic)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "derive shared secret", Err: err}
	}

	salt, err := e.crypto.RandomBytes(saltSize)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "generate salt", Err: err}
	}

	var body []byte
	if e.encoding == constants.ContentEncodingAESGCM {
		body, err = e.sealAESGCM(secret, auth, salt, uaRaw, asPublic, plaintext)
	} else {
		body, err = e.sealAES128GCM(secret, auth, salt, uaRaw, asPublic, plaintext)
	}
	if err != nil {
		return nil, err
	}

	return &Encrypted{
		Encoding:  e.encoding,
		Body:      body,
		Salt:      salt,
		PublicKey: asPublic,
	}, nil
}

// sealAES128GCM frames the ciphertext as salt || rs || idlen || keyid || record.
func (e *Encryptor) sealAES128GCM(secret, auth, salt, uaPublic, asPublic, plaintext []byte) ([]byte, error) {
	keyInfo := concat(infoWebPush, uaPublic, asPublic)
	ikm, err := e.crypto.HKDF(auth, secret, keyInfo, ikmSize)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "derive ikm", Err: err}
	}

	cek, nonce, err := e.contentKeys(salt, ikm, infoAES128GCM, infoNonce)
	if err != nil {
		return nil, err
	}

	record := make([]byte, 0, len(plaintext)+1)
	record = append(record, plaintext...)
	record = append(record, lastRecord)

	ciphertext, err := e.crypto.AEADEncrypt(cek, nonce, record)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "seal record", Err: err}
	}

	body := make([]byte, 0, headerLength+len(ciphertext))
	body = append(body, salt...)
	body = binary.BigEndian.AppendUint32(body, recordSize)
	body = append(body, byte(len(asPublic)))
	body = append(body, asPublic...)
	body = append(body, ciphertext...)

	return body, nil
}

// sealAESGCM uses the draft framing: salt and key travel in headers, plaintext carries a two-byte pad length.
func (e *Encryptor) sealAESGCM(secret, auth, salt, uaPublic, asPublic, plaintext []byte) ([]byte, error) {
	prk, err := e.crypto.HKDF(auth, secret, infoAuth, ikmSize)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "derive prk", Err: err}
	}

	keyContext := aesgcmContext(uaPublic, asPublic)
	cek, nonce, err := e.contentKeys(salt, prk, concat(infoAESGCM, keyContext), concat(infoNonce, keyContext))
	if err != nil {
		return nil, err
	}

	padded := make([]byte, 2, len(plaintext)+2)
	padded = append(padded, plaintext...)

	ciphertext, err := e.crypto.AEADEncrypt(cek, nonce, padded)
	if err != nil {
		return nil, &domainerrors.EncryptionError{Reason: "seal record", Err: err}
	}

	return ciphertext, nil
}

func (e *Encryptor) contentKeys(salt, ikm, cekInfo, nonceInfo []byte) (cek, nonce []byte, err error) {
	cek, err = e.crypto.HKDF(salt, ikm, cekInfo, cekSize)
	if err != nil {
		return nil, nil, &domainerrors.EncryptionError{Reason: "derive content key", Err: err}
	}

	nonce, err = e.crypto.HKDF(salt, ikm, nonceInfo, nonceSize)
	if err != nil {
		return nil, nil, &domainerrors.EncryptionError{Reason: "derive nonce", Err: err}
	}

	return cek, nonce, nil
}

func aesgcmContext(uaPublic, asPublic []byte) []byte {
	ctx := make([]byte, 0, len(curveContextTag)+4+len(uaPublic)+len(asPublic))
	ctx = append(ctx, curveContextTag...)
	ctx = binary.BigEndian.AppendUint16(ctx, uint16(len(uaPublic)))
	ctx = append(ctx, uaPublic...)
	ctx = binary.BigEndian.AppendUint16(ctx, uint16(len(asPublic)))
	ctx = append(ctx, asPublic...)

	return ctx
}

func concat(parts ...[]byte) []byte {
	size := 0
	for _, part := range parts {
		size += len(part)
	}

	out := make([]byte, 0, size)
	for _, part := range parts {
		out = append(out, part...)
	}

	return out
}
