package wallet

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/lumenlabs/wallet-sdk-go/types"
)

// Signer 签名器接口
// 本地 KeyPair 是默认实现；托管场景可以用远程签名器替换
type Signer interface {
	// PublicKey 返回签名公钥
	PublicKey() types.PublicKey
	// Sign 对给定数据（通常为 32 字节哈希）签名
	Sign(data []byte) (types.Signature, error)
}

// KeyPair 本地密钥对
//
// 支持两种曲线：
// - ed25519：链上标准账户密钥
// - secp256k1：eth 风格隐式账户密钥（与以太坊使用的曲线保持一致）
type KeyPair struct {
	keyType     types.KeyType
	publicKey   types.PublicKey
	ed25519Priv ed25519.PrivateKey
	secpPriv    *ecdsa.PrivateKey
}

// GenerateKeyPair 生成随机密钥对
func GenerateKeyPair(keyType types.KeyType) (*KeyPair, error) {
	switch keyType {
	case types.KeyTypeED25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate ed25519 key: %w", err)
		}
		pk, err := types.NewPublicKeyFromED25519(pub)
		if err != nil {
			return nil, err
		}
		return &KeyPair{keyType: keyType, publicKey: pk, ed25519Priv: priv}, nil

	case types.KeyTypeSECP256K1:
		priv, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate secp256k1 key: %w", err)
		}
		return newSecpKeyPair(priv)

	default:
		return nil, fmt.Errorf("unsupported key type: %d", keyType)
	}
}

// ParseKeyPair 解析 "<curve>:<base58 secret>" 格式的私钥字符串
//
// **格式**：
// - ed25519 私钥为 64 字节（seed + 公钥），也接受 32 字节 seed
// - secp256k1 私钥为 32 字节
func ParseKeyPair(s string) (*KeyPair, error) {
	keyType := types.KeyTypeED25519
	data := s
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		kt, err := types.ParseKeyType(s[:idx])
		if err != nil {
			return nil, fmt.Errorf("parse key pair failed: %w", err)
		}
		keyType = kt
		data = s[idx+1:]
	}

	raw := base58.Decode(data)
	switch keyType {
	case types.KeyTypeED25519:
		var priv ed25519.PrivateKey
		switch len(raw) {
		case ed25519.PrivateKeySize:
			priv = ed25519.PrivateKey(raw)
		case ed25519.SeedSize:
			priv = ed25519.NewKeyFromSeed(raw)
		default:
			return nil, fmt.Errorf("invalid ed25519 secret key length: expected %d or %d bytes, got %d",
				ed25519.PrivateKeySize, ed25519.SeedSize, len(raw))
		}
		pk, err := types.NewPublicKeyFromED25519(priv.Public().(ed25519.PublicKey))
		if err != nil {
			return nil, err
		}
		return &KeyPair{keyType: keyType, publicKey: pk, ed25519Priv: priv}, nil

	case types.KeyTypeSECP256K1:
		priv, err := ethcrypto.ToECDSA(raw)
		if err != nil {
			return nil, fmt.Errorf("parse secp256k1 secret key failed: %w", err)
		}
		return newSecpKeyPair(priv)

	default:
		return nil, fmt.Errorf("unsupported key type: %d", keyType)
	}
}

// newSecpKeyPair 从 ecdsa 私钥构建 KeyPair
func newSecpKeyPair(priv *ecdsa.PrivateKey) (*KeyPair, error) {
	// 去掉未压缩公钥的 0x04 前缀，保留 64 字节
	pubBytes := ethcrypto.FromECDSAPub(&priv.PublicKey)
	pk, err := types.NewPublicKeyFromSECP256K1(pubBytes[1:])
	if err != nil {
		return nil, err
	}
	return &KeyPair{keyType: types.KeyTypeSECP256K1, publicKey: pk, secpPriv: priv}, nil
}

// KeyType 返回密钥曲线类型
func (kp *KeyPair) KeyType() types.KeyType {
	return kp.keyType
}

// PublicKey 返回公钥
func (kp *KeyPair) PublicKey() types.PublicKey {
	return kp.publicKey
}

// Sign 对给定数据签名
// 交易和委托载荷的签名输入是 sha256 哈希，由调用方计算
func (kp *KeyPair) Sign(data []byte) (types.Signature, error) {
	switch kp.keyType {
	case types.KeyTypeED25519:
		return types.NewSignatureED25519(ed25519.Sign(kp.ed25519Priv, data))

	case types.KeyTypeSECP256K1:
		if len(data) != 32 {
			return types.Signature{}, fmt.Errorf("secp256k1 requires a 32-byte digest, got %d bytes", len(data))
		}
		raw, err := ethcrypto.Sign(data, kp.secpPriv)
		if err != nil {
			return types.Signature{}, fmt.Errorf("secp256k1 sign failed: %w", err)
		}
		return types.NewSignatureSECP256K1(raw)

	default:
		return types.Signature{}, fmt.Errorf("unsupported key type: %d", kp.keyType)
	}
}

// String 导出 "<curve>:<base58 secret>" 格式的私钥字符串（谨慎使用）
func (kp *KeyPair) String() string {
	switch kp.keyType {
	case types.KeyTypeSECP256K1:
		return fmt.Sprintf("%s:%s", kp.keyType, base58.Encode(ethcrypto.FromECDSA(kp.secpPriv)))
	default:
		return fmt.Sprintf("%s:%s", kp.keyType, base58.Encode(kp.ed25519Priv))
	}
}

// ImplicitAccountID 返回公钥派生的隐式账户标识
//
// - ed25519：公钥的十六进制（64 字符）
// - secp256k1：eth 风格，keccak256(公钥)[12:] 带 0x 前缀
func (kp *KeyPair) ImplicitAccountID() string {
	switch kp.keyType {
	case types.KeyTypeSECP256K1:
		hash := ethcrypto.Keccak256(kp.publicKey.Bytes())
		return "0x" + hex.EncodeToString(hash[12:])
	default:
		return hex.EncodeToString(kp.publicKey.Bytes())
	}
}
