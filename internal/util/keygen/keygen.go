package keygen

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

// KeyPair holds a key pair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the private key as an OpenSSH PEM block.
	PrivateKey []byte
	// PublicKey is the public key in OpenSSH authorized_keys format.
	PublicKey []byte
}

// GenerateEd25519KeyPair generates a new ed25519 key pair. comment ends up
// in both halves.
func GenerateEd25519KeyPair(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key: %w", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		authorized += " " + comment
	}

	return &KeyPair{
		PrivateKey: pem.EncodeToMemory(block),
		PublicKey:  []byte(authorized + "\n"),
	}, nil
}

// Write stores the pair at path and path+".pub".
func (kp *KeyPair) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, kp.PrivateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(path+".pub", kp.PublicKey, 0o644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}

// PublicKeyFromPrivateFile derives the authorized_keys line from a private
// key file. Passphrase-protected keys are not supported.
func PublicKeyFromPrivateFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key %s: %w", path, err)
	}
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(signer.PublicKey()))), nil
}

// EnsureKeyPair returns the public key of the private key at path. When the
// file does not exist and generate is set, a new pair is written first.
func EnsureKeyPair(path string, generate bool) (publicKey string, generated bool, err error) {
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
	case errors.Is(statErr, os.ErrNotExist) && generate:
		kp, err := GenerateEd25519KeyPair("hforge")
		if err != nil {
			return "", false, err
		}
		if err := kp.Write(path); err != nil {
			return "", false, err
		}
		generated = true
	case errors.Is(statErr, os.ErrNotExist):
		return "", false, fmt.Errorf("private key %s does not exist (set ssh.generate to create it)", path)
	default:
		return "", false, fmt.Errorf("failed to stat private key: %w", statErr)
	}

	publicKey, err = PublicKeyFromPrivateFile(path)
	if err != nil {
		return "", false, err
	}
	return publicKey, generated, nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
