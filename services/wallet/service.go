// Package wallet 是面向宿主应用的钱包门面。
//
// 组合会话、交易装配与中继提交：签名分发按配置走两条路径之一，配置了
// 中继地址时把动作包成委托载荷交给中继代付 gas，否则直接签名广播。
package wallet

import (
	"context"
	"fmt"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/services"
	"github.com/lumenlabs/wallet-sdk-go/services/relay"
	"github.com/lumenlabs/wallet-sdk-go/services/session"
	"github.com/lumenlabs/wallet-sdk-go/services/transaction"
	"github.com/lumenlabs/wallet-sdk-go/types"
)

// ChainClient 分发所需的链访问能力
// client.LumenClient 满足本接口
type ChainClient interface {
	transaction.ChainClient

	// Block 按终局性级别查询区块
	Block(ctx context.Context, finality client.Finality) (*client.BlockView, error)
	// BroadcastTxCommit 广播已签名交易并等待执行结果
	BroadcastTxCommit(ctx context.Context, signedTx *types.SignedTransaction) (*client.FinalExecutionOutcome, error)
}

// Service 钱包服务接口
type Service interface {
	// SignIn 登录（委托给会话服务，幂等）
	SignIn(ctx context.Context, params *session.SignInParams) ([]session.Account, error)

	// SignOut 登出并清除本地密钥
	SignOut(ctx context.Context) error

	// GetAccounts 返回会话账户列表，永不返回错误
	GetAccounts(ctx context.Context) []session.Account

	// VerifyOwner 账户归属证明（不支持，恒定返回错误）
	VerifyOwner(ctx context.Context, message string) error

	// SignAndSendTransaction 签名并发送单笔交易
	//
	// 要求已有活跃会话，不会隐式触发登录。中继路径发完即走，返回的
	// 执行结果为 nil；直接广播路径返回节点的执行结果。
	SignAndSendTransaction(ctx context.Context, req *transaction.Request) (*client.FinalExecutionOutcome, error)

	// SignAndSendTransactions 顺序签名并发送一批交易
	//
	// 严格串行：任何一笔失败立即中止，不发送后续交易，也不聚合部分
	// 成功结果。失败不影响会话状态。
	SignAndSendTransactions(ctx context.Context, reqs []*transaction.Request) ([]*client.FinalExecutionOutcome, error)
}

// Options 钱包服务依赖
type Options struct {
	// Config 业务配置
	Config *services.Config
	// Chain 链客户端
	Chain ChainClient
	// Session 会话服务
	Session session.Service
	// Relay 中继提交服务，nil 表示走直接广播路径
	Relay relay.Service
}

// walletService 钱包服务实现
type walletService struct {
	config    *services.Config
	chain     ChainClient
	session   session.Service
	assembler transaction.Service
	relay     relay.Service
}

// NewService 创建钱包服务
func NewService(opts *Options) (Service, error) {
	if opts == nil || opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	if opts.Session == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if err := opts.Config.Normalize(); err != nil {
		return nil, err
	}

	return &walletService{
		config:    opts.Config,
		chain:     opts.Chain,
		session:   opts.Session,
		assembler: transaction.NewService(opts.Chain),
		relay:     opts.Relay,
	}, nil
}

// SignIn 登录
func (s *walletService) SignIn(ctx context.Context, params *session.SignInParams) ([]session.Account, error) {
	return s.session.SignIn(ctx, params)
}

// SignOut 登出
func (s *walletService) SignOut(ctx context.Context) error {
	return s.session.SignOut(ctx)
}

// GetAccounts 返回会话账户列表
func (s *walletService) GetAccounts(ctx context.Context) []session.Account {
	return s.session.GetAccounts(ctx)
}

// VerifyOwner 账户归属证明
func (s *walletService) VerifyOwner(ctx context.Context, message string) error {
	return s.session.VerifyOwner(ctx, message)
}

// SignAndSendTransaction 签名并发送单笔交易
func (s *walletService) SignAndSendTransaction(ctx context.Context, req *transaction.Request) (*client.FinalExecutionOutcome, error) {
	outcomes, err := s.SignAndSendTransactions(ctx, []*transaction.Request{req})
	if err != nil {
		return nil, err
	}
	return outcomes[0], nil
}

// SignAndSendTransactions 顺序签名并发送一批交易
func (s *walletService) SignAndSendTransactions(ctx context.Context, reqs []*transaction.Request) ([]*client.FinalExecutionOutcome, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("no transactions to send")
	}

	accountID, signer, err := s.session.ActiveAccount()
	if err != nil {
		return nil, err
	}

	outcomes := make([]*client.FinalExecutionOutcome, 0, len(reqs))
	for i, req := range reqs {
		var outcome *client.FinalExecutionOutcome
		var err error
		if s.relay != nil {
			outcome, err = s.sendViaRelay(ctx, accountID, signer, req, i)
		} else {
			outcome, err = s.sendDirect(ctx, accountID, signer, req)
		}
		if err != nil {
			// 首笔失败即中止，不聚合部分成功结果
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// sendViaRelay 中继路径：包装成委托载荷，签名后交给中继代付
func (s *walletService) sendViaRelay(ctx context.Context, accountID string, signer types.Signer, req *transaction.Request, index int) (*client.FinalExecutionOutcome, error) {
	if req.SignerID != "" && req.SignerID != accountID {
		return nil, fmt.Errorf("signer %q does not match session account %q", req.SignerID, accountID)
	}

	// 1. 解析访问密钥
	view, err := s.chain.AccessKeyForTransaction(ctx, accountID, signer.PublicKey(), req.ReceiverID, req.Actions)
	if err != nil {
		return nil, fmt.Errorf("resolve access key failed: %w", err)
	}
	if view == nil {
		return nil, client.NewNoAccessKeyError(req.ReceiverID)
	}

	// 2. 取最新终局区块高度，确定委托有效窗口
	block, err := s.chain.Block(ctx, client.FinalityFinal)
	if err != nil {
		return nil, fmt.Errorf("fetch block failed: %w", err)
	}

	// 3. 构建并签名委托载荷
	delegate := &types.DelegateAction{
		SenderID:       accountID,
		ReceiverID:     req.ReceiverID,
		Actions:        req.Actions,
		Nonce:          view.Nonce + uint64(index) + 1,
		MaxBlockHeight: block.Header.Height + s.config.DelegateTTL,
		PublicKey:      signer.PublicKey(),
	}
	signedDelegate, err := delegate.Sign(signer)
	if err != nil {
		return nil, err
	}

	// 4. 提交中继；发完即走，没有执行结果可返回
	if err := s.relay.Submit(ctx, signedDelegate); err != nil {
		return nil, err
	}
	return nil, nil
}

// sendDirect 直接广播路径：装配、签名、send_tx
func (s *walletService) sendDirect(ctx context.Context, accountID string, signer types.Signer, req *transaction.Request) (*client.FinalExecutionOutcome, error) {
	txs, err := s.assembler.CreateTransactions(ctx, accountID, signer.PublicKey(), []*transaction.Request{req})
	if err != nil {
		return nil, err
	}

	signedTx, err := s.assembler.SignTransaction(txs[0], signer)
	if err != nil {
		return nil, err
	}

	outcome, err := s.chain.BroadcastTxCommit(ctx, signedTx)
	if err != nil {
		return nil, err
	}
	if outcome.Status.Failed() {
		return nil, fmt.Errorf("transaction execution failed: %s", string(outcome.Status["Failure"]))
	}
	return outcome, nil
}
