package types

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/near/borsh-go"
)

// Transaction 已装配交易
//
// 由交易装配器从高层的"预期交易"（receiver + actions）构建，携带：
// - 严格递增的 nonce（必须大于访问密钥当前 nonce）
// - final 终局性区块的哈希（重放保护窗口绑定）
// 构建后不可变，由签名器恰好消费一次。
type Transaction struct {
	SignerID   string
	PublicKey  PublicKey
	Nonce      uint64
	ReceiverID string
	BlockHash  [32]byte
	Actions    []Action
}

// Signer 交易签名器接口
// 由 wallet 包的 KeyPair 实现；托管场景下也可以由远程签名器实现
type Signer interface {
	// PublicKey 返回签名公钥
	PublicKey() PublicKey
	// Sign 对给定数据（通常为 32 字节哈希）签名
	Sign(data []byte) (Signature, error)
}

// Serialize 返回交易的 borsh 规范编码
func (t *Transaction) Serialize() ([]byte, error) {
	data, err := borsh.Serialize(*t)
	if err != nil {
		return nil, fmt.Errorf("serialize transaction failed: %w", err)
	}
	return data, nil
}

// Hash 计算交易哈希（sha256 over borsh 编码）
func (t *Transaction) Hash() ([32]byte, error) {
	data, err := t.Serialize()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Sign 用签名器对交易签名，产出可广播的 SignedTransaction
func (t *Transaction) Sign(signer Signer) (*SignedTransaction, error) {
	// 1. 计算交易哈希
	hash, err := t.Hash()
	if err != nil {
		return nil, err
	}

	// 2. 对哈希签名
	sig, err := signer.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("sign transaction failed: %w", err)
	}

	return &SignedTransaction{
		Transaction: *t,
		Signature:   sig,
	}, nil
}

// SignedTransaction 已签名交易
type SignedTransaction struct {
	Transaction Transaction
	Signature   Signature
}

// Serialize 返回已签名交易的 borsh 规范编码
func (st *SignedTransaction) Serialize() ([]byte, error) {
	data, err := borsh.Serialize(*st)
	if err != nil {
		return nil, fmt.Errorf("serialize signed transaction failed: %w", err)
	}
	return data, nil
}

// Base64 返回广播用的 base64 编码载荷
func (st *SignedTransaction) Base64() (string, error) {
	data, err := st.Serialize()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
