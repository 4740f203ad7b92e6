// Package transaction 负责把调用意图装配成可签名的链上交易。
//
// 装配一笔交易需要三样输入：已按范围校验过的访问密钥（提供 nonce）、
// 最新终局区块哈希（提供有效窗口锚点）和动作列表。本包只装配不签名，
// 签名由持有会话密钥的上层完成。
package transaction

import (
	"context"
	"fmt"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/types"
	"github.com/lumenlabs/wallet-sdk-go/wallet"
)

// ChainClient 装配所需的链查询能力
// client.LumenClient 满足本接口；窄接口便于在测试中替换为假节点
type ChainClient interface {
	// AccessKeyForTransaction 查询并校验可用于给定交易的访问密钥
	AccessKeyForTransaction(ctx context.Context, accountID string, publicKey types.PublicKey, receiverID string, actions []types.Action) (*client.AccessKeyView, error)
	// FinalBlockHash 查询最新终局区块的哈希
	FinalBlockHash(ctx context.Context) ([32]byte, error)
}

// Request 单笔交易意图
type Request struct {
	// SignerID 发起账户，为空时使用会话的活跃账户
	SignerID string
	// ReceiverID 接收账户
	ReceiverID string
	// Actions 动作列表
	Actions []types.Action
}

// Service 交易装配服务接口
type Service interface {
	// CreateTransaction 装配单笔交易
	CreateTransaction(ctx context.Context, signerID string, publicKey types.PublicKey, req *Request) (*types.Transaction, error)

	// CreateTransactions 装配一批交易
	//
	// 同一批次内第 i 笔交易的 nonce 为密钥当前 nonce + i + 1，保证批内
	// 有序且不与链上已用 nonce 冲突。每笔交易单独拉取最新终局区块哈希，
	// 不跨批次缓存。
	//
	// 任何一笔的密钥解析失败会中止后续装配，但已装配完成的交易仍随错误
	// 一起返回。
	CreateTransactions(ctx context.Context, signerID string, publicKey types.PublicKey, reqs []*Request) ([]*types.Transaction, error)

	// SignTransaction 用给定签名器对装配完成的交易签名
	SignTransaction(tx *types.Transaction, signer wallet.Signer) (*types.SignedTransaction, error)
}

// transactionService 交易装配服务实现
type transactionService struct {
	chain ChainClient
}

// NewService 创建交易装配服务
func NewService(chain ChainClient) Service {
	return &transactionService{chain: chain}
}

// CreateTransaction 装配单笔交易
func (s *transactionService) CreateTransaction(ctx context.Context, signerID string, publicKey types.PublicKey, req *Request) (*types.Transaction, error) {
	txs, err := s.CreateTransactions(ctx, signerID, publicKey, []*Request{req})
	if err != nil {
		return nil, err
	}
	return txs[0], nil
}

// CreateTransactions 装配一批交易
func (s *transactionService) CreateTransactions(ctx context.Context, signerID string, publicKey types.PublicKey, reqs []*Request) ([]*types.Transaction, error) {
	txs := make([]*types.Transaction, 0, len(reqs))

	for i, req := range reqs {
		// 请求级 signer 仅允许与会话账户一致
		if req.SignerID != "" && req.SignerID != signerID {
			return txs, fmt.Errorf("transaction %d: signer %q does not match session account %q", i, req.SignerID, signerID)
		}

		// 1. 解析访问密钥（按 receiver 和 actions 做范围校验）
		view, err := s.chain.AccessKeyForTransaction(ctx, signerID, publicKey, req.ReceiverID, req.Actions)
		if err != nil {
			return txs, fmt.Errorf("resolve access key failed: %w", err)
		}
		if view == nil {
			return txs, client.NewNoAccessKeyError(req.ReceiverID)
		}

		// 2. 拉取最新终局区块哈希（每笔交易都新取）
		blockHash, err := s.chain.FinalBlockHash(ctx)
		if err != nil {
			return txs, fmt.Errorf("fetch block hash failed: %w", err)
		}

		// 3. 装配交易，批内第 i 笔 nonce 为 n+i+1
		txs = append(txs, &types.Transaction{
			SignerID:   signerID,
			PublicKey:  publicKey,
			Nonce:      view.Nonce + uint64(i) + 1,
			ReceiverID: req.ReceiverID,
			BlockHash:  blockHash,
			Actions:    req.Actions,
		})
	}

	return txs, nil
}

// SignTransaction 用给定签名器对装配完成的交易签名
func (s *transactionService) SignTransaction(tx *types.Transaction, signer wallet.Signer) (*types.SignedTransaction, error) {
	signedTx, err := tx.Sign(signer)
	if err != nil {
		return nil, fmt.Errorf("sign transaction failed: %w", err)
	}
	return signedTx, nil
}
