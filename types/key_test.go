package types

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/near/borsh-go"
)

func TestParseKeyType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    KeyType
		wantErr bool
	}{
		{name: "ed25519", input: "ed25519", want: KeyTypeED25519},
		{name: "secp256k1", input: "secp256k1", want: KeyTypeSECP256K1},
		{name: "uppercase", input: "ED25519", want: KeyTypeED25519},
		{name: "unknown", input: "rsa", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeyType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKeyType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseKeyType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	pk, err := NewPublicKeyFromED25519(pub)
	if err != nil {
		t.Fatalf("NewPublicKeyFromED25519: %v", err)
	}

	// 文本格式带曲线前缀
	s := pk.String()
	if !strings.HasPrefix(s, "ed25519:") {
		t.Errorf("String() = %q, want ed25519: prefix", s)
	}

	parsed, err := ParsePublicKey(s)
	if err != nil {
		t.Fatalf("ParsePublicKey(%q): %v", s, err)
	}
	if !parsed.Equal(pk) {
		t.Errorf("round trip mismatch: %v != %v", parsed, pk)
	}

	// 无前缀默认按 ed25519 解析
	noPrefix, err := ParsePublicKey(strings.TrimPrefix(s, "ed25519:"))
	if err != nil {
		t.Fatalf("ParsePublicKey without prefix: %v", err)
	}
	if !noPrefix.Equal(pk) {
		t.Errorf("prefixless parse mismatch")
	}
}

func TestParsePublicKeyInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown curve", input: "rsa:abc"},
		{name: "wrong length", input: "ed25519:abc"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePublicKey(tt.input); err == nil {
				t.Errorf("ParsePublicKey(%q) expected error", tt.input)
			}
		})
	}
}

func TestPublicKeyBorshEncoding(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pk, err := NewPublicKeyFromED25519(pub)
	if err != nil {
		t.Fatalf("NewPublicKeyFromED25519: %v", err)
	}

	data, err := borsh.Serialize(pk)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	// 曲线类型单字节 + 32 字节公钥
	if len(data) != 33 {
		t.Fatalf("encoded length = %d, want 33", len(data))
	}
	if data[0] != 0 {
		t.Errorf("curve tag = %d, want 0 (ed25519)", data[0])
	}
}

func TestSignatureVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pk, err := NewPublicKeyFromED25519(pub)
	if err != nil {
		t.Fatalf("NewPublicKeyFromED25519: %v", err)
	}

	msg := []byte("delegate payload")
	sig, err := NewSignatureED25519(ed25519.Sign(priv, msg))
	if err != nil {
		t.Fatalf("NewSignatureED25519: %v", err)
	}

	if !pk.Verify(msg, sig) {
		t.Error("Verify = false, want true")
	}
	if pk.Verify([]byte("tampered"), sig) {
		t.Error("Verify on tampered message = true, want false")
	}
}
