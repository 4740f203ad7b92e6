// Package session 管理托管钱包的登录会话。
//
// 会话对象显式持有全部状态（密钥存储、网络、活跃账户），不依赖包级
// 全局变量；同一进程可以并存多个互不干扰的会话。
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/types"
	"github.com/lumenlabs/wallet-sdk-go/wallet"
)

// State 会话状态
type State int

const (
	// StateSignedOut 未登录
	StateSignedOut State = iota
	// StateAuthenticating 握手进行中
	StateAuthenticating
	// StateSignedIn 已登录
	StateSignedIn
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateSignedOut:
		return "signed_out"
	case StateAuthenticating:
		return "authenticating"
	case StateSignedIn:
		return "signed_in"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// SignInParams 登录参数
// 全部字段透传给托管服务的握手流程
type SignInParams struct {
	// ContractID 申请函数调用级密钥的目标合约，为空表示申请完全访问密钥
	ContractID string
	// MethodNames 函数调用级密钥的方法白名单，为空表示不限方法
	MethodNames []string
	// SuccessURL 握手成功后的回跳地址
	SuccessURL string
	// FailureURL 握手失败后的回跳地址
	FailureURL string
	// Email 预填的账户邮箱
	Email string
	// AccountID 预填的账户标识
	AccountID string
	// IsRecovery 是否走账户恢复流程
	IsRecovery bool
}

// Account 会话账户
type Account struct {
	// AccountID 账户标识
	AccountID string
	// PublicKey 会话密钥的公钥
	PublicKey types.PublicKey
}

// Handshake 托管服务握手接口
//
// 封装与远端托管服务的认证交互：实现方负责完成认证流程，并把拿到的
// 会话密钥写入会话的密钥存储。浏览器跳转、邮件验证等交互细节都在实现
// 方内部，本包不感知。
type Handshake interface {
	// RequestSignIn 发起登录握手
	// 成功返回时会话密钥已写入密钥存储
	RequestSignIn(ctx context.Context, network string, params *SignInParams) error
}

// Service 会话服务接口
type Service interface {
	// SignIn 登录
	// 幂等：已登录时直接返回当前账户，不重复握手
	SignIn(ctx context.Context, params *SignInParams) ([]Account, error)

	// SignOut 登出并清除本地密钥
	// 未登录时为空操作
	SignOut(ctx context.Context) error

	// GetAccounts 返回会话账户列表
	// 永不返回错误：未登录或密钥不可解析时返回空列表
	GetAccounts(ctx context.Context) []Account

	// VerifyOwner 账户归属证明（托管模式不支持，恒定返回错误）
	VerifyOwner(ctx context.Context, message string) error

	// ActiveAccount 返回活跃账户标识和对应签名器
	ActiveAccount() (string, wallet.Signer, error)

	// State 返回当前会话状态
	State() State

	// Network 返回会话网络
	Network() string
}

// sessionService 会话服务实现
type sessionService struct {
	mu        sync.Mutex
	network   string
	keyStore  wallet.KeyStore
	handshake Handshake
	state     State
	accountID string
}

// NewService 创建会话服务
func NewService(network string, keyStore wallet.KeyStore, handshake Handshake) Service {
	return &sessionService{
		network:   network,
		keyStore:  keyStore,
		handshake: handshake,
		state:     StateSignedOut,
	}
}

// SignIn 登录
func (s *sessionService) SignIn(ctx context.Context, params *SignInParams) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 已登录直接返回当前账户
	if s.state == StateSignedIn {
		return s.accounts(), nil
	}
	if params == nil {
		params = &SignInParams{}
	}

	// 1. 执行握手，会话密钥由握手实现写入密钥存储
	s.state = StateAuthenticating
	if err := s.handshake.RequestSignIn(ctx, s.network, params); err != nil {
		s.state = StateSignedOut
		return nil, fmt.Errorf("sign in failed: %w", err)
	}

	// 2. 从密钥存储回读账户
	accounts, err := s.keyStore.Accounts(s.network)
	if err != nil {
		s.state = StateSignedOut
		return nil, fmt.Errorf("load session accounts failed: %w", err)
	}
	if len(accounts) == 0 {
		s.state = StateSignedOut
		return nil, fmt.Errorf("sign in failed: handshake completed without storing a session key")
	}

	// 单账户会话：取第一个账户为活跃账户
	s.accountID = accounts[0]
	s.state = StateSignedIn
	return s.accounts(), nil
}

// SignOut 登出并清除本地密钥
func (s *sessionService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSignedIn {
		return nil
	}

	if err := s.keyStore.Delete(s.network, s.accountID); err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}
	s.accountID = ""
	s.state = StateSignedOut
	return nil
}

// GetAccounts 返回会话账户列表
func (s *sessionService) GetAccounts(ctx context.Context) []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts()
}

// accounts 组装账户列表（调用方须持锁）
func (s *sessionService) accounts() []Account {
	if s.state != StateSignedIn || s.accountID == "" {
		return []Account{}
	}
	kp, err := s.keyStore.Get(s.network, s.accountID)
	if err != nil {
		return []Account{}
	}
	return []Account{{AccountID: s.accountID, PublicKey: kp.PublicKey()}}
}

// VerifyOwner 账户归属证明
// 托管模式下私钥不在本地长期驻留，消息签名证明不受支持
func (s *sessionService) VerifyOwner(ctx context.Context, message string) error {
	return client.NewNotSupportedError("verifyOwner is not supported by Lumen Wallet")
}

// ActiveAccount 返回活跃账户标识和对应签名器
func (s *sessionService) ActiveAccount() (string, wallet.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSignedIn || s.accountID == "" {
		return "", nil, fmt.Errorf("no active session: sign in first")
	}
	kp, err := s.keyStore.Get(s.network, s.accountID)
	if err != nil {
		return "", nil, fmt.Errorf("load session key failed: %w", err)
	}
	return s.accountID, kp, nil
}

// State 返回当前会话状态
func (s *sessionService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Network 返回会话网络
func (s *sessionService) Network() string {
	return s.network
}
