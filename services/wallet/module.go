package wallet

import (
	"context"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/services"
	"github.com/lumenlabs/wallet-sdk-go/services/relay"
	"github.com/lumenlabs/wallet-sdk-go/services/session"
	keys "github.com/lumenlabs/wallet-sdk-go/wallet"
)

// 托管钱包前端地址
const (
	MainnetWalletURL = "https://wallet.lumenwallet.app"
	TestnetWalletURL = "https://testnet.wallet.lumenwallet.app"
)

// ModuleID 钱包模块标识
const ModuleID = "lumen-wallet"

// Metadata 钱包模块元数据（供宿主的钱包选择框架展示）
type Metadata struct {
	// Name 展示名称
	Name string
	// IconURL 图标地址
	IconURL string
	// Deprecated 是否已弃用
	Deprecated bool
	// Available 当前环境是否可用
	Available bool
	// SuccessURL 握手成功回跳地址
	SuccessURL string
	// FailureURL 握手失败回跳地址
	FailureURL string
	// WalletURL 托管钱包前端地址
	WalletURL string
}

// Module 钱包模块描述符
type Module struct {
	// ID 模块标识
	ID string
	// Type 模块类型
	Type string
	// Metadata 模块元数据
	Metadata Metadata
	// Init 创建钱包服务实例
	Init func(ctx context.Context) (Service, error)
}

// ModuleParams 模块装配参数
type ModuleParams struct {
	// Config 业务配置
	Config *services.Config
	// Chain 链客户端
	Chain ChainClient
	// KeyStore 会话密钥存储
	KeyStore keys.KeyStore
	// Handshake 托管服务握手实现
	Handshake session.Handshake
	// IconURL 图标地址，可选
	IconURL string
	// SuccessURL 握手成功回跳地址，可选
	SuccessURL string
	// FailureURL 握手失败回跳地址，可选
	FailureURL string
}

// ResolveWalletURL 按网络解析托管钱包前端地址
// mainnet 和 testnet 之外的网络没有托管前端，直接失败
func ResolveWalletURL(config *services.Config) (string, error) {
	if config.WalletBaseURL != "" {
		return config.WalletBaseURL, nil
	}
	switch config.Network {
	case services.NetworkMainnet:
		return MainnetWalletURL, nil
	case services.NetworkTestnet:
		return TestnetWalletURL, nil
	default:
		return "", client.NewUnknownNetworkError(config.Network)
	}
}

// SetupModule 装配钱包模块
//
// 钱包地址解析在装配期完成：未知网络在任何会话建立之前即失败，
// 而不是推迟到第一次登录
func SetupModule(params *ModuleParams) (*Module, error) {
	config := params.Config
	if config == nil {
		config = services.DefaultConfig()
	}
	if err := config.Normalize(); err != nil {
		return nil, err
	}

	walletURL, err := ResolveWalletURL(config)
	if err != nil {
		return nil, err
	}

	return &Module{
		ID:   ModuleID,
		Type: "browser",
		Metadata: Metadata{
			Name:       "Lumen Wallet",
			IconURL:    params.IconURL,
			Deprecated: false,
			Available:  true,
			SuccessURL: params.SuccessURL,
			FailureURL: params.FailureURL,
			WalletURL:  walletURL,
		},
		Init: func(ctx context.Context) (Service, error) {
			sess := session.NewService(config.Network, params.KeyStore, params.Handshake)

			var relaySvc relay.Service
			if config.RelayerURL != "" {
				svc, err := relay.NewService(&relay.Config{
					URL:              config.RelayerURL,
					ValidateResponse: config.ValidateRelayResponse,
				})
				if err != nil {
					return nil, err
				}
				relaySvc = svc
			}

			return NewService(&Options{
				Config:  config,
				Chain:   params.Chain,
				Session: sess,
				Relay:   relaySvc,
			})
		},
	}, nil
}
