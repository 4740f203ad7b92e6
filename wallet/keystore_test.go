package wallet

import (
	"errors"
	"testing"

	"github.com/lumenlabs/wallet-sdk-go/types"
)

func TestInMemoryKeyStore(t *testing.T) {
	store := NewInMemoryKeyStore()
	kp, err := GenerateKeyPair(types.KeyTypeED25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	// 未写入时读取返回 ErrKeyNotFound
	if _, err := store.Get("testnet", "alice.testnet"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get before Put error = %v, want ErrKeyNotFound", err)
	}

	if err := store.Put("testnet", "alice.testnet", kp); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get("testnet", "alice.testnet")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.PublicKey().Equal(kp.PublicKey()) {
		t.Error("stored key mismatch")
	}

	// 不同网络互不可见
	if _, err := store.Get("mainnet", "alice.testnet"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("cross-network Get error = %v, want ErrKeyNotFound", err)
	}

	if err := store.Delete("testnet", "alice.testnet"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get("testnet", "alice.testnet"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrKeyNotFound", err)
	}

	// 重复删除是幂等空操作
	if err := store.Delete("testnet", "alice.testnet"); err != nil {
		t.Errorf("repeated Delete: %v", err)
	}
}

func TestInMemoryKeyStoreRejectsNil(t *testing.T) {
	store := NewInMemoryKeyStore()
	if err := store.Put("testnet", "alice.testnet", nil); err == nil {
		t.Error("Put(nil) expected error")
	}
}

func TestInMemoryKeyStoreAccounts(t *testing.T) {
	store := NewInMemoryKeyStore()
	for _, account := range []string{"carol.testnet", "alice.testnet", "bob.testnet"} {
		kp, err := GenerateKeyPair(types.KeyTypeED25519)
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		if err := store.Put("testnet", account, kp); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	mainnetKey, err := GenerateKeyPair(types.KeyTypeED25519)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if err := store.Put("mainnet", "alice.near", mainnetKey); err != nil {
		t.Fatalf("Put: %v", err)
	}

	accounts, err := store.Accounts("testnet")
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	want := []string{"alice.testnet", "bob.testnet", "carol.testnet"}
	if len(accounts) != len(want) {
		t.Fatalf("Accounts() = %v, want %v", accounts, want)
	}
	for i := range want {
		if accounts[i] != want[i] {
			t.Errorf("Accounts()[%d] = %q, want %q", i, accounts[i], want[i])
		}
	}

	empty, err := store.Accounts("betanet")
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Accounts(betanet) = %v, want empty", empty)
	}
}
