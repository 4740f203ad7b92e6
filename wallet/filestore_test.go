package wallet

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenlabs/wallet-sdk-go/types"
)

func TestFileKeyStoreRoundTrip(t *testing.T) {
	store, err := NewFileKeyStore(t.TempDir(), "correct horse battery staple")
	if err != nil {
		t.Fatalf("NewFileKeyStore: %v", err)
	}

	kp, err := GenerateKeyPair(types.KeyTypeED25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if err := store.Put("testnet", "alice.testnet", kp); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get("testnet", "alice.testnet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.PublicKey().Equal(kp.PublicKey()) {
		t.Error("decrypted key mismatch")
	}

	accounts, err := store.Accounts("testnet")
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "alice.testnet" {
		t.Errorf("Accounts() = %v", accounts)
	}

	if err := store.Delete("testnet", "alice.testnet"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("testnet", "alice.testnet"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrKeyNotFound", err)
	}
}

func TestFileKeyStoreWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir, "right")
	if err != nil {
		t.Fatalf("NewFileKeyStore: %v", err)
	}

	kp, err := GenerateKeyPair(types.KeyTypeED25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if err := store.Put("testnet", "alice.testnet", kp); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// 错误口令必须被 MAC 校验拦下，不能解出垃圾密钥
	wrong, err := NewFileKeyStore(dir, "wrong")
	if err != nil {
		t.Fatalf("NewFileKeyStore: %v", err)
	}
	if _, err := wrong.Get("testnet", "alice.testnet"); err == nil {
		t.Error("Get with wrong passphrase expected error")
	}
}

func TestFileKeyStoreFileFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileKeyStore(dir, "passphrase")
	if err != nil {
		t.Fatalf("NewFileKeyStore: %v", err)
	}

	kp, err := GenerateKeyPair(types.KeyTypeED25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if err := store.Put("testnet", "alice.testnet", kp); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 keystore file, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var ks keystoreFile
	if err := json.Unmarshal(data, &ks); err != nil {
		t.Fatalf("keystore file is not valid JSON: %v", err)
	}
	if ks.Version != keystoreVersion {
		t.Errorf("version = %d, want %d", ks.Version, keystoreVersion)
	}
	if ks.ID == "" {
		t.Error("keystore id is empty")
	}
	if ks.AccountID != "alice.testnet" || ks.Network != "testnet" {
		t.Errorf("identity = %s/%s", ks.Network, ks.AccountID)
	}
	if ks.Crypto.Cipher != "aes-128-ctr" || ks.Crypto.KDF != "pbkdf2" {
		t.Errorf("crypto scheme = %s/%s", ks.Crypto.Cipher, ks.Crypto.KDF)
	}
}
