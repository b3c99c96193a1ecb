package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyChainService constructs a [KeyChainService] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService() KeyChainService {
	return &keyChainService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// GenerateEncryptionSalt implements [KeyChainService]. It reads 16 random
// bytes from the OS CSPRNG.
func (k *keyChainService) GenerateEncryptionSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateItemsKey implements [KeyChainService]. It reads 32 random bytes
// from the OS CSPRNG.
func (k *keyChainService) GenerateItemsKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateRootKey implements [KeyChainService]. The result exists only in
// client memory and is never transmitted to the server.
func (k *keyChainService) GenerateRootKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}

// WrapItemsKey implements [KeyChainService]. A random 12-byte nonce is
// prepended to the ciphertext so the decryption side can locate it:
// blob = nonce ‖ ciphertext.
func (k *keyChainService) WrapItemsKey(itemsKey, rootKey []byte) ([]byte, error) {
	block, err := aes.NewCipher(rootKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	wrapped := gcm.Seal(nil, nonce, itemsKey, nil)
	return append(nonce, wrapped...), nil
}

// UnwrapItemsKey implements [KeyChainService]. The blob must be at least as
// long as the GCM nonce (12 bytes).
func (k *keyChainService) UnwrapItemsKey(wrapped, rootKey []byte) ([]byte, error) {
	block, err := aes.NewCipher(rootKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(wrapped) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := wrapped[:nonceSize], wrapped[nonceSize:]

	// An error here almost always means the user entered the wrong
	// password, producing a wrong root key.
	itemsKey, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return itemsKey, nil
}

// GenerateAuthHash implements [KeyChainService]. The fixed authSalt
// domain-separates this hash from the root key itself, ensuring the two
// values have different purposes even though they share derivation material.
func (k *keyChainService) GenerateAuthHash(rootKey []byte, authSalt string) []byte {
	h := sha256.New()
	h.Write(rootKey)
	h.Write([]byte(authSalt))
	return h.Sum(nil)
}

// EncryptData implements [KeyChainService]. It marshals data to JSON, then
// encrypts it with key using AES-256-GCM. The output is a Base64 (standard
// encoding) string of the blob: nonce (12 bytes) ‖ ciphertext.
func (k *keyChainService) EncryptData(data any, key []byte) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(nonce, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptData implements [KeyChainService]. target must be a non-nil
// pointer, identical to the requirement of [encoding/json.Unmarshal].
func (k *keyChainService) DecryptData(encryptedB64 string, key []byte, target any) error {
	blob, err := base64.StdEncoding.DecodeString(encryptedB64)
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create gcm: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("decrypt data: %w", err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
