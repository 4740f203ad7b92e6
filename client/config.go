package client

// Config 客户端配置
type Config struct {
	// Endpoint 节点 JSON-RPC 端点地址
	Endpoint string

	// Protocol 协议类型
	Protocol Protocol

	// Timeout 超时时间（秒）
	Timeout int

	// Retry 重试配置（nil 时使用默认配置）
	Retry *RetryConfig

	// 调试模式
	Debug bool

	// 日志器（可选）
	Logger Logger
}

// Protocol 协议类型
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// 公共网络的 RPC 端点
const (
	MainnetRPCEndpoint = "https://rpc.mainnet.near.org"
	TestnetRPCEndpoint = "https://rpc.testnet.near.org"
)

// RPCEndpointForNetwork 返回网络标识对应的默认 RPC 端点
// 未知网络返回空字符串，由调用方决定是否视为致命错误
func RPCEndpointForNetwork(network string) string {
	switch network {
	case "mainnet":
		return MainnetRPCEndpoint
	case "testnet":
		return TestnetRPCEndpoint
	default:
		return ""
	}
}

// DefaultConfig 返回默认配置（指向公共测试网）
func DefaultConfig() *Config {
	return &Config{
		Endpoint: TestnetRPCEndpoint,
		Protocol: ProtocolHTTP,
		Timeout:  30,
		Debug:    false,
	}
}
