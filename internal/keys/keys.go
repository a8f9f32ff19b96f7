package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

const KeySize = 2048

const (
	keyDir         = "files"
	privateKeyFile = "jwt_private.pem"
)

// GetOrGenerateRSAKeyPair loads the server's signing key from disk,
// generating and persisting one on first run. The same key must survive
// restarts or every issued session token is invalidated.
func GetOrGenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	return loadOrCreateKeyPair(filepath.Join(keyDir, privateKeyFile))
}

func loadOrCreateKeyPair(path string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		privateKey, err := parsePrivateKeyPEM(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse stored private key: %w", err)
		}
		return privateKey, &privateKey.PublicKey, nil
	}
	if !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read private key: %w", err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, nil, fmt.Errorf("failed to persist private key: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

func parsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

// MarshalPublicKeyPEM renders a public key in the PEM form accounts
// register with.
func MarshalPublicKeyPEM(publicKey *rsa.PublicKey) string {
	block := &pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(publicKey),
	}
	return string(pem.EncodeToMemory(block))
}
