// Package services 提供钱包桥各业务域的共享配置。
package services

import "fmt"

// 网络标识
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// DefaultDelegateTTL 委托动作的默认有效窗口（区块高度数）
const DefaultDelegateTTL = 60

// Config 业务服务共享配置
type Config struct {
	// Network 网络标识（mainnet / testnet）
	Network string

	// RelayerURL 中继服务地址。配置后交易走委托中继路径并由中继代付 gas；
	// 为空时直接签名广播
	RelayerURL string

	// WalletBaseURL 托管钱包前端地址。为空时按网络解析默认地址
	WalletBaseURL string

	// DelegateTTL 委托动作有效窗口（区块高度数），0 表示默认值
	DelegateTTL uint64

	// ValidateRelayResponse 是否解析中继响应并上抛中继侧的执行失败。
	// 默认关闭（发完即走）
	ValidateRelayResponse bool
}

// DefaultConfig 返回默认配置（testnet）
func DefaultConfig() *Config {
	return &Config{
		Network:     NetworkTestnet,
		DelegateTTL: DefaultDelegateTTL,
	}
}

// Normalize 填充零值字段并校验必填项
func (c *Config) Normalize() error {
	if c.Network == "" {
		return fmt.Errorf("network is required")
	}
	if c.DelegateTTL == 0 {
		c.DelegateTTL = DefaultDelegateTTL
	}
	return nil
}
