// Package crypto implements the client-side cryptography for the
// zero-knowledge scheme: key derivation, items-key wrapping, and payload
// content encryption. It knows nothing about the network, the database, or
// items themselves.
package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService owns key material handling:
//
//	salt, itemsKey = GenerateEncryptionSalt() + GenerateItemsKey()
//	rootKey        = GenerateRootKey(password, salt)
//	wrapped        = WrapItemsKey(itemsKey, rootKey)
//	authHash       = GenerateAuthHash(rootKey, authSalt)
//
// The root key exists only in client memory. The wrapped items key and the
// auth hash are the only derived values that ever reach the server.
type KeyChainService interface {
	// GenerateEncryptionSalt returns a random 16-byte salt. The salt is not
	// a secret; it is stored on the server in the clear so identical
	// passwords derive different root keys.
	GenerateEncryptionSalt() ([]byte, error)

	// GenerateItemsKey returns a random 32-byte key. The items key encrypts
	// all item content and never leaves the client unwrapped.
	GenerateItemsKey() ([]byte, error)

	// GenerateRootKey derives a 256-bit key from the account password and
	// salt using Argon2id.
	GenerateRootKey(password string, salt []byte) []byte

	// WrapItemsKey encrypts the items key with the root key via AES-256-GCM.
	// The result (nonce ‖ ciphertext) is safe to store on the server.
	WrapItemsKey(itemsKey, rootKey []byte) ([]byte, error)

	// UnwrapItemsKey reverses WrapItemsKey. An authentication failure almost
	// always means a wrong password produced a wrong root key.
	UnwrapItemsKey(wrapped, rootKey []byte) ([]byte, error)

	// GenerateAuthHash computes the server-side authentication secret:
	// SHA-256(rootKey ‖ authSalt). The server compares it at sign-in but
	// cannot recover the root key from it.
	GenerateAuthHash(rootKey []byte, authSalt string) []byte

	// EncryptData serializes the given value to JSON and encrypts it with
	// key. Returns a base64-encoded blob (nonce ‖ ciphertext).
	EncryptData(data any, key []byte) (string, error)

	// DecryptData decrypts a base64-encoded blob with key and unmarshals
	// the result into target (same contract as json.Unmarshal).
	DecryptData(encryptedB64 string, key []byte, target any) error
}
