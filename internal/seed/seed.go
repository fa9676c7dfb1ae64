// Package seed generates the wallet's root key material and encrypts it into
// an opaque envelope. Only ciphertext ever leaves this package boundary; the
// vault and the directory never see plaintext seed bytes.
package seed

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	dErrors "walletgate/pkg/domain-errors"
)

const (
	envelopeVersion = 1
	saltSize        = 16

	argonTime     = 2
	argonMemoryKB = 64 * 1024
	argonThreads  = 1
)

// envelope is the serialized form of an encrypted seed. The whole structure
// is base64-encoded so callers can treat ciphertexts as opaque text.
type envelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

// Generate derives fresh root key material from 256 bits of entropy.
func Generate() ([]byte, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not gather entropy")
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not derive mnemonic")
	}
	return bip39.NewSeed(mnemonic, ""), nil
}

// Encrypt seals the plaintext under a key derived from the password and
// returns the envelope as opaque base64 text.
func Encrypt(password string, plaintext []byte) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password is required")
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate salt")
	}
	key := deriveKey(password, salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not initialize cipher")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate nonce")
	}

	raw, err := json.Marshal(envelope{
		Version:     envelopeVersion,
		KDF:         "argon2id",
		KDFTime:     argonTime,
		KDFMemoryKB: argonMemoryKB,
		KDFThreads:  argonThreads,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  aead.Seal(nil, nonce, plaintext, nil),
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not encode envelope")
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decrypt opens an envelope produced by Encrypt.
func Decrypt(password, encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "malformed seed envelope")
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "malformed seed envelope")
	}
	if env.Version != envelopeVersion || env.KDF != "argon2id" {
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported seed envelope")
	}

	key := deriveKey(password, env.Salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not initialize cipher")
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "seed decryption failed")
	}
	return plaintext, nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKB, argonThreads, chacha20poly1305.KeySize)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
