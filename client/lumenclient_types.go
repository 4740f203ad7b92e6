package client

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcutil/base58"
)

// Finality 区块终局性级别
type Finality string

const (
	// FinalityFinal 已终局（共识保证不可回滚）
	FinalityFinal Finality = "final"
	// FinalityOptimistic 乐观确认（最新区块，可能被回滚）
	FinalityOptimistic Finality = "optimistic"
)

// BlockView 区块查询结果
type BlockView struct {
	Header BlockHeaderView `json:"header"`
}

// BlockHeaderView 区块头视图
type BlockHeaderView struct {
	Height    uint64 `json:"height"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	Timestamp uint64 `json:"timestamp"`
}

// HashBytes 返回 base58 解码后的 32 字节区块哈希
func (h *BlockHeaderView) HashBytes() ([32]byte, error) {
	var out [32]byte
	raw := base58.Decode(h.Hash)
	if len(raw) != 32 {
		return out, NewInvalidResponseError(fmt.Sprintf("invalid block hash %q: expected 32 bytes after base58 decode, got %d", h.Hash, len(raw)))
	}
	copy(out[:], raw)
	return out, nil
}

// AccessKeyView 访问密钥查询结果
type AccessKeyView struct {
	Nonce       uint64         `json:"nonce"`
	Permission  PermissionView `json:"permission"`
	BlockHeight uint64         `json:"block_height"`
	BlockHash   string         `json:"block_hash"`

	// Error 旧版节点对不存在的密钥会在结果体里带 error 字段而不是返回 RPC 错误
	Error string `json:"error,omitempty"`
}

// PermissionView 权限视图
// 节点对 FullAccess 返回字符串 "FullAccess"，对函数调用权限返回对象，
// 这里统一成一个结构
type PermissionView struct {
	FullAccess   bool
	FunctionCall *FunctionCallPermissionView
}

// FunctionCallPermissionView 函数调用权限视图
type FunctionCallPermissionView struct {
	Allowance   string   `json:"allowance"`
	ReceiverID  string   `json:"receiver_id"`
	MethodNames []string `json:"method_names"`
}

// UnmarshalJSON 同时接受字符串和对象两种权限编码
func (p *PermissionView) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "FullAccess" {
			return fmt.Errorf("unknown permission %q", s)
		}
		p.FullAccess = true
		return nil
	}

	var obj struct {
		FunctionCall *FunctionCallPermissionView `json:"FunctionCall"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal permission failed: %w", err)
	}
	if obj.FunctionCall == nil {
		return fmt.Errorf("unknown permission object")
	}
	p.FunctionCall = obj.FunctionCall
	return nil
}

// MarshalJSON 与 UnmarshalJSON 对称
func (p PermissionView) MarshalJSON() ([]byte, error) {
	if p.FullAccess {
		return json.Marshal("FullAccess")
	}
	return json.Marshal(map[string]interface{}{
		"FunctionCall": p.FunctionCall,
	})
}

// AccessKeyInfoView 账户密钥列表中的单项
type AccessKeyInfoView struct {
	PublicKey string        `json:"public_key"`
	AccessKey AccessKeyView `json:"access_key"`
}

// AccessKeyListView 账户的全部访问密钥
type AccessKeyListView struct {
	Keys []AccessKeyInfoView `json:"keys"`
}

// FinalExecutionOutcome 交易的最终执行结果
type FinalExecutionOutcome struct {
	Status             ExecutionStatusView `json:"status"`
	Transaction        json.RawMessage     `json:"transaction"`
	TransactionOutcome json.RawMessage     `json:"transaction_outcome"`
	ReceiptsOutcome    json.RawMessage     `json:"receipts_outcome"`
}

// ExecutionStatusView 执行状态
// 成功时为 {"SuccessValue": ...} 或 {"SuccessReceiptId": ...}，失败时为 {"Failure": ...}
type ExecutionStatusView map[string]json.RawMessage

// Failed 执行是否失败
func (s ExecutionStatusView) Failed() bool {
	_, ok := s["Failure"]
	return ok
}

// GasPriceView gas 价格查询结果
type GasPriceView struct {
	GasPrice string `json:"gas_price"`
}

// Price 解析为 u128 数值
func (g *GasPriceView) Price() (*big.Int, error) {
	price, ok := new(big.Int).SetString(g.GasPrice, 10)
	if !ok {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid gas price %q", g.GasPrice))
	}
	return price, nil
}
