package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/lumenlabs/wallet-sdk-go/types"
	"github.com/lumenlabs/wallet-sdk-go/utils"
)

// LumenClient 链客户端接口
// 提供类型化的 RPC 封装，避免上层直接使用 Call(method, params)。
// 这是会话、装配、分发各层依赖的唯一节点入口：区块查询、访问密钥查询、
// 交易广播都从这里走。
type LumenClient interface {
	// Block 按终局性级别查询区块
	Block(ctx context.Context, finality Finality) (*BlockView, error)

	// FinalBlockHash 查询最新终局区块的哈希（base58 解码后的原始字节）
	// 每个交易批次都必须新取，不得跨批次缓存：验证节点会拒绝引用
	// 有效窗口之外的区块哈希的交易
	FinalBlockHash(ctx context.Context) ([32]byte, error)

	// ViewAccessKey 查询账户上与公钥对应的访问密钥
	// 密钥不存在时返回 (nil, nil)
	ViewAccessKey(ctx context.Context, accountID string, publicKey types.PublicKey) (*AccessKeyView, error)

	// ViewAccessKeyList 查询账户的全部访问密钥
	ViewAccessKeyList(ctx context.Context, accountID string) (*AccessKeyListView, error)

	// AccessKeyForTransaction 查询并校验可用于给定交易的访问密钥
	// 函数调用级密钥会按 receiver 和 actions 做范围校验，越权时视同不存在，
	// 返回 (nil, nil)
	AccessKeyForTransaction(ctx context.Context, accountID string, publicKey types.PublicKey, receiverID string, actions []types.Action) (*AccessKeyView, error)

	// BatchViewAccessKeys 并发查询同一账户的多个公钥（利用 utils 批量能力）
	BatchViewAccessKeys(ctx context.Context, accountID string, publicKeys []types.PublicKey) ([]*AccessKeyView, error)

	// BroadcastTxCommit 广播已签名交易并等待执行结果
	BroadcastTxCommit(ctx context.Context, signedTx *types.SignedTransaction) (*FinalExecutionOutcome, error)

	// BroadcastTxAsync 异步广播已签名交易，返回交易哈希
	BroadcastTxAsync(ctx context.Context, signedTx *types.SignedTransaction) (string, error)

	// GasPrice 查询最新区块的 gas 价格
	GasPrice(ctx context.Context) (*big.Int, error)

	// 底层通道（不推荐上层直接使用）
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

	// 连接管理
	Close() error
}

// lumenClientImpl LumenClient 实现类
type lumenClientImpl struct {
	client Client
}

// NewLumenClient 创建 LumenClient 实例
func NewLumenClient(config *Config) (LumenClient, error) {
	c, err := NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &lumenClientImpl{client: c}, nil
}

// NewLumenClientFromClient 从现有 Client 创建 LumenClient
func NewLumenClientFromClient(c Client) LumenClient {
	return &lumenClientImpl{client: c}
}

// Block 按终局性级别查询区块
func (c *lumenClientImpl) Block(ctx context.Context, finality Finality) (*BlockView, error) {
	params := map[string]interface{}{
		"finality": string(finality),
	}
	raw, err := c.client.Call(ctx, "block", params)
	if err != nil {
		return nil, fmt.Errorf("query block failed: %w", err)
	}

	var view BlockView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid block response: %v", err))
	}
	if view.Header.Hash == "" {
		return nil, NewInvalidResponseError("missing block header hash")
	}
	return &view, nil
}

// FinalBlockHash 查询最新终局区块的哈希
func (c *lumenClientImpl) FinalBlockHash(ctx context.Context) ([32]byte, error) {
	block, err := c.Block(ctx, FinalityFinal)
	if err != nil {
		return [32]byte{}, err
	}
	return block.Header.HashBytes()
}

// ViewAccessKey 查询账户上与公钥对应的访问密钥
func (c *lumenClientImpl) ViewAccessKey(ctx context.Context, accountID string, publicKey types.PublicKey) (*AccessKeyView, error) {
	params := map[string]interface{}{
		"request_type": "view_access_key",
		"finality":     string(FinalityOptimistic),
		"account_id":   accountID,
		"public_key":   publicKey.String(),
	}
	raw, err := c.client.Call(ctx, "query", params)
	if err != nil {
		// 密钥不存在不是传输错误：统一折叠为 (nil, nil)
		if isUnknownAccessKeyError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("view access key failed: %w", err)
	}

	var view AccessKeyView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid access key response: %v", err))
	}
	// 旧版节点把"密钥不存在"放在结果体的 error 字段里
	if view.Error != "" {
		return nil, nil
	}
	return &view, nil
}

// ViewAccessKeyList 查询账户的全部访问密钥
func (c *lumenClientImpl) ViewAccessKeyList(ctx context.Context, accountID string) (*AccessKeyListView, error) {
	params := map[string]interface{}{
		"request_type": "view_access_key_list",
		"finality":     string(FinalityOptimistic),
		"account_id":   accountID,
	}
	raw, err := c.client.Call(ctx, "query", params)
	if err != nil {
		return nil, fmt.Errorf("view access key list failed: %w", err)
	}

	var view AccessKeyListView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid access key list response: %v", err))
	}
	return &view, nil
}

// AccessKeyForTransaction 查询并校验可用于给定交易的访问密钥
func (c *lumenClientImpl) AccessKeyForTransaction(ctx context.Context, accountID string, publicKey types.PublicKey, receiverID string, actions []types.Action) (*AccessKeyView, error) {
	view, err := c.ViewAccessKey(ctx, accountID, publicKey)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, nil
	}

	// 完全访问密钥对任意交易有效
	if view.Permission.FullAccess {
		return view, nil
	}

	// 函数调用级密钥：receiver 必须匹配，且动作必须是单个不附带存款的
	// 白名单方法调用
	perm := view.Permission.FunctionCall
	if perm == nil || perm.ReceiverID != receiverID {
		return nil, nil
	}
	if len(actions) != 1 {
		return nil, nil
	}
	fc, ok := actions[0].GetFunctionCall()
	if !ok {
		return nil, nil
	}
	if fc.Deposit.Sign() != 0 {
		return nil, nil
	}
	if len(perm.MethodNames) > 0 {
		allowed := false
		for _, m := range perm.MethodNames {
			if m == fc.MethodName {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, nil
		}
	}
	return view, nil
}

// BatchViewAccessKeys 并发查询同一账户的多个公钥
func (c *lumenClientImpl) BatchViewAccessKeys(ctx context.Context, accountID string, publicKeys []types.PublicKey) ([]*AccessKeyView, error) {
	return utils.ParallelExecute(ctx, publicKeys, func(ctx context.Context, pk types.PublicKey) (*AccessKeyView, error) {
		return c.ViewAccessKey(ctx, accountID, pk)
	}, 5)
}

// BroadcastTxCommit 广播已签名交易并等待执行结果
func (c *lumenClientImpl) BroadcastTxCommit(ctx context.Context, signedTx *types.SignedTransaction) (*FinalExecutionOutcome, error) {
	payload, err := signedTx.Base64()
	if err != nil {
		return nil, err
	}

	params := map[string]interface{}{
		"signed_tx_base64": payload,
		"wait_until":       "EXECUTED_OPTIMISTIC",
	}
	raw, err := c.client.Call(ctx, "send_tx", params)
	if err != nil {
		return nil, fmt.Errorf("broadcast transaction failed: %w", err)
	}

	var outcome FinalExecutionOutcome
	if err := json.Unmarshal(raw, &outcome); err != nil {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid execution outcome: %v", err))
	}
	return &outcome, nil
}

// BroadcastTxAsync 异步广播已签名交易，返回交易哈希
func (c *lumenClientImpl) BroadcastTxAsync(ctx context.Context, signedTx *types.SignedTransaction) (string, error) {
	payload, err := signedTx.Base64()
	if err != nil {
		return "", err
	}

	raw, err := c.client.Call(ctx, "broadcast_tx_async", []interface{}{payload})
	if err != nil {
		return "", fmt.Errorf("broadcast transaction failed: %w", err)
	}

	var txHash string
	if err := json.Unmarshal(raw, &txHash); err != nil {
		return "", NewInvalidResponseError(fmt.Sprintf("invalid broadcast response: %v", err))
	}
	return txHash, nil
}

// GasPrice 查询最新区块的 gas 价格
func (c *lumenClientImpl) GasPrice(ctx context.Context) (*big.Int, error) {
	raw, err := c.client.Call(ctx, "gas_price", []interface{}{nil})
	if err != nil {
		return nil, fmt.Errorf("query gas price failed: %w", err)
	}

	var view GasPriceView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, NewInvalidResponseError(fmt.Sprintf("invalid gas price response: %v", err))
	}
	return view.Price()
}

// Call 底层 JSON-RPC 通道
func (c *lumenClientImpl) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return c.client.Call(ctx, method, params)
}

// Close 关闭连接
func (c *lumenClientImpl) Close() error {
	return c.client.Close()
}

// isUnknownAccessKeyError 判断 RPC 错误是否表示访问密钥不存在
func isUnknownAccessKeyError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNKNOWN_ACCESS_KEY") ||
		strings.Contains(msg, "does not exist while viewing")
}
