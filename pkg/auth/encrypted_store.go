package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// PassphraseEnvVar overrides the generated passphrase of the encrypted store
const PassphraseEnvVar = "LIPOST_PASSPHRASE"

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore implements TokenStore using an AES-GCM encrypted file
type EncryptedFileStore struct {
	filepath   string
	passphrase string
	mu         sync.RWMutex
}

// encryptedFile is the on-disk layout
type encryptedFile struct {
	Salt      string    `json:"salt"`
	Encrypted string    `json:"encrypted"`
	Version   int       `json:"version"`
	Modified  time.Time `json:"modified"`
}

// NewEncryptedFileStore creates a new encrypted file-based token store. The
// passphrase comes from LIPOST_PASSPHRASE or a generated file next to the
// config.
func NewEncryptedFileStore(filePath string) (*EncryptedFileStore, error) {
	passphrase, err := getPassphrase()
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}
	return NewEncryptedFileStoreWithPassphrase(filePath, passphrase)
}

// NewEncryptedFileStoreWithPassphrase creates an encrypted store with an
// explicit passphrase
func NewEncryptedFileStoreWithPassphrase(filePath, passphrase string) (*EncryptedFileStore, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}

	dir := filepath.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return &EncryptedFileStore{
		filepath:   filePath,
		passphrase: passphrase,
	}, nil
}

func (e *EncryptedFileStore) Name() string { return "encrypted-file" }

// Store encrypts the credential and writes it, replacing the file atomically
func (e *EncryptedFileStore) Store(cred *Credential) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cred == nil || cred.Token == "" {
		return ErrInvalidCredentials
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	plaintext, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	encrypted, err := encrypt(plaintext, e.deriveKey(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	content, err := json.MarshalIndent(encryptedFile{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(encrypted),
		Version:   1,
		Modified:  time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal file data: %w", err)
	}

	tempFile := e.filepath + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return os.Rename(tempFile, e.filepath)
}

// Retrieve decrypts the stored credential
func (e *EncryptedFileStore) Retrieve() (*Credential, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	content, err := os.ReadFile(e.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file encryptedFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	encryptedBytes, err := base64.StdEncoding.DecodeString(file.Encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	decrypted, err := decrypt(encryptedBytes, e.deriveKey(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(decrypted, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credential: %w", err)
	}

	return &cred, nil
}

// Delete removes the encrypted file
func (e *EncryptedFileStore) Delete() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.Remove(e.filepath); err != nil {
		if os.IsNotExist(err) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

func (e *EncryptedFileStore) deriveKey(salt []byte) []byte {
	return pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)
}

// getPassphrase retrieves or generates the passphrase for encryption
func getPassphrase() (string, error) {
	if pass := os.Getenv(PassphraseEnvVar); pass != "" {
		return pass, nil
	}

	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}

	passphraseFile := filepath.Join(configDir, ".passphrase")

	if content, err := os.ReadFile(passphraseFile); err == nil && len(content) > 0 {
		return string(content), nil
	}

	passphrase, err := generatePassphrase()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(passphraseFile, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}

	return passphrase, nil
}

// generatePassphrase generates a random passphrase
func generatePassphrase() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// encrypt encrypts data using AES-GCM
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
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

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts data using AES-GCM
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
