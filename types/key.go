package types

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/near/borsh-go"
)

// KeyType 密钥曲线类型
// 链上序列化为单字节枚举：0 = ed25519，1 = secp256k1
type KeyType uint8

const (
	KeyTypeED25519 KeyType = iota
	KeyTypeSECP256K1
)

// String 返回密钥类型的文本前缀
func (k KeyType) String() string {
	switch k {
	case KeyTypeED25519:
		return "ed25519"
	case KeyTypeSECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// ParseKeyType 解析密钥类型前缀
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(s) {
	case "ed25519":
		return KeyTypeED25519, nil
	case "secp256k1":
		return KeyTypeSECP256K1, nil
	default:
		return 0, fmt.Errorf("unknown key type: %s", s)
	}
}

// PublicKey 链上公钥
//
// **格式**：
// - borsh 编码为枚举：曲线类型（1字节）+ 原始公钥字节
// - 文本格式为 "<curve>:<base58>"，例如 "ed25519:6E8sCci9badyRkXb3JoRpBj5p8C6Tw41ELDZoiihKEtp"
type PublicKey struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [32]byte
	SECP256K1 [64]byte
}

// NewPublicKeyFromED25519 从 ed25519 标准库公钥构建 PublicKey
func NewPublicKeyFromED25519(pub ed25519.PublicKey) (PublicKey, error) {
	if len(pub) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("invalid ed25519 public key length: expected %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	var pk PublicKey
	pk.Enum = borsh.Enum(KeyTypeED25519)
	copy(pk.ED25519[:], pub)
	return pk, nil
}

// NewPublicKeyFromSECP256K1 从 64 字节未压缩 secp256k1 公钥（去掉 0x04 前缀）构建 PublicKey
func NewPublicKeyFromSECP256K1(pub []byte) (PublicKey, error) {
	if len(pub) != 64 {
		return PublicKey{}, fmt.Errorf("invalid secp256k1 public key length: expected 64 bytes, got %d", len(pub))
	}
	var pk PublicKey
	pk.Enum = borsh.Enum(KeyTypeSECP256K1)
	copy(pk.SECP256K1[:], pub)
	return pk, nil
}

// ParsePublicKey 解析 "<curve>:<base58>" 格式的公钥字符串
// 没有曲线前缀时默认按 ed25519 处理
func ParsePublicKey(s string) (PublicKey, error) {
	keyType := KeyTypeED25519
	data := s
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		kt, err := ParseKeyType(s[:idx])
		if err != nil {
			return PublicKey{}, fmt.Errorf("parse public key failed: %w", err)
		}
		keyType = kt
		data = s[idx+1:]
	}

	raw := base58.Decode(data)
	switch keyType {
	case KeyTypeED25519:
		if len(raw) != 32 {
			return PublicKey{}, fmt.Errorf("invalid ed25519 public key length: expected 32 bytes, got %d", len(raw))
		}
		var pk PublicKey
		pk.Enum = borsh.Enum(KeyTypeED25519)
		copy(pk.ED25519[:], raw)
		return pk, nil
	case KeyTypeSECP256K1:
		if len(raw) != 64 {
			return PublicKey{}, fmt.Errorf("invalid secp256k1 public key length: expected 64 bytes, got %d", len(raw))
		}
		var pk PublicKey
		pk.Enum = borsh.Enum(KeyTypeSECP256K1)
		copy(pk.SECP256K1[:], raw)
		return pk, nil
	default:
		return PublicKey{}, fmt.Errorf("unsupported key type: %d", keyType)
	}
}

// KeyType 返回公钥曲线类型
func (pk PublicKey) KeyType() KeyType {
	return KeyType(pk.Enum)
}

// Bytes 返回原始公钥字节
func (pk PublicKey) Bytes() []byte {
	switch pk.KeyType() {
	case KeyTypeSECP256K1:
		return pk.SECP256K1[:]
	default:
		return pk.ED25519[:]
	}
}

// String 返回 "<curve>:<base58>" 文本格式
func (pk PublicKey) String() string {
	return fmt.Sprintf("%s:%s", pk.KeyType(), base58.Encode(pk.Bytes()))
}

// Equal 比较两个公钥是否相同
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Enum == other.Enum && bytes.Equal(pk.Bytes(), other.Bytes())
}

// Verify 验证签名（仅支持 ed25519，secp256k1 的验签由节点完成）
func (pk PublicKey) Verify(data []byte, sig Signature) bool {
	if pk.KeyType() != KeyTypeED25519 || sig.KeyType() != KeyTypeED25519 {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pk.ED25519[:]), data, sig.ED25519[:])
}

// Signature 链上签名
//
// **格式**：
// - borsh 编码为枚举：曲线类型（1字节）+ 签名字节
// - ed25519 为 64 字节；secp256k1 为 65 字节（R || S || V）
type Signature struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [64]byte
	SECP256K1 [65]byte
}

// NewSignatureED25519 从 64 字节 ed25519 签名构建 Signature
func NewSignatureED25519(raw []byte) (Signature, error) {
	if len(raw) != ed25519.SignatureSize {
		return Signature{}, fmt.Errorf("invalid ed25519 signature length: expected %d bytes, got %d", ed25519.SignatureSize, len(raw))
	}
	var sig Signature
	sig.Enum = borsh.Enum(KeyTypeED25519)
	copy(sig.ED25519[:], raw)
	return sig, nil
}

// NewSignatureSECP256K1 从 65 字节 secp256k1 签名构建 Signature
func NewSignatureSECP256K1(raw []byte) (Signature, error) {
	if len(raw) != 65 {
		return Signature{}, fmt.Errorf("invalid secp256k1 signature length: expected 65 bytes, got %d", len(raw))
	}
	var sig Signature
	sig.Enum = borsh.Enum(KeyTypeSECP256K1)
	copy(sig.SECP256K1[:], raw)
	return sig, nil
}

// KeyType 返回签名曲线类型
func (s Signature) KeyType() KeyType {
	return KeyType(s.Enum)
}

// Bytes 返回原始签名字节
func (s Signature) Bytes() []byte {
	switch s.KeyType() {
	case KeyTypeSECP256K1:
		return s.SECP256K1[:]
	default:
		return s.ED25519[:]
	}
}

// String 返回 "<curve>:<base58>" 文本格式
func (s Signature) String() string {
	return fmt.Sprintf("%s:%s", s.KeyType(), base58.Encode(s.Bytes()))
}
