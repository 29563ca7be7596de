package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/palindromepay/PalindromeFox/internal/domain/checkout"
)

// envelope is the wire form carried in the escrow record. The seller side
// holds the same key and unwraps it to recover the IPFS pointer.
type envelope struct {
	CipherText string `json:"cipherText"`
	IV         string `json:"iv"`
}

// AESEncryptor seals small payloads with AES-256-GCM
type AESEncryptor struct {
	aead cipher.AEAD
}

// GenerateKeyBase64 returns a fresh random 32-byte key in base64 form.
func GenerateKeyBase64() string {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		panic("crypto: failed to read random key material: " + err.Error())
	}
	return base64.StdEncoding.EncodeToString(key)
}

// NewAESEncryptor creates an encryptor from a base64-encoded 32-byte key.
func NewAESEncryptor(keyBase64 string) (*AESEncryptor, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, fmt.Errorf("encryptor: key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryptor: key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encryptor: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encryptor: %w", err)
	}
	return &AESEncryptor{aead: aead}, nil
}

var _ checkout.Encryptor = (*AESEncryptor)(nil)

// Seal encrypts the plaintext and returns a JSON envelope with the
// base64-encoded ciphertext and nonce.
func (e *AESEncryptor) Seal(plaintext []byte) (string, error) {
	iv := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("encryptor: failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nil, iv, plaintext, nil)
	out, err := json.Marshal(envelope{
		CipherText: base64.StdEncoding.EncodeToString(sealed),
		IV:         base64.StdEncoding.EncodeToString(iv),
	})
	if err != nil {
		return "", fmt.Errorf("encryptor: failed to marshal envelope: %w", err)
	}
	return string(out), nil
}

// Open decrypts an envelope produced by Seal.
func (e *AESEncryptor) Open(sealed string) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal([]byte(sealed), &env); err != nil {
		return nil, fmt.Errorf("encryptor: invalid envelope: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.CipherText)
	if err != nil {
		return nil, fmt.Errorf("encryptor: invalid ciphertext encoding: %w", err)
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil {
		return nil, fmt.Errorf("encryptor: invalid nonce encoding: %w", err)
	}
	if len(iv) != e.aead.NonceSize() {
		return nil, fmt.Errorf("encryptor: nonce must be %d bytes, got %d", e.aead.NonceSize(), len(iv))
	}

	plaintext, err := e.aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("encryptor: decryption failed: %w", err)
	}
	return plaintext, nil
}
