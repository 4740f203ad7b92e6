// Package relay 把已签名的委托载荷提交给 gas 代付中继服务。
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/types"
)

const defaultSubmitTimeout = 30 * time.Second

// Service 中继提交服务接口
type Service interface {
	// Submit 提交已签名委托
	//
	// 默认发完即走：只要 HTTP 往返成功即视为已提交，不解析响应体。
	// 开启响应校验后会解析中继返回的执行结果，中继侧拒绝会作为错误
	// 上抛给调用方。
	Submit(ctx context.Context, signedDelegate *types.SignedDelegate) error
}

// Config 中继服务配置
type Config struct {
	// URL 中继服务地址
	URL string
	// ValidateResponse 是否解析响应并上抛中继侧的执行失败
	ValidateResponse bool
	// Timeout 单次提交超时，0 表示默认值
	Timeout time.Duration
	// HTTPClient 自定义 HTTP 客户端，nil 时按 Timeout 新建
	HTTPClient *http.Client
}

// relayService 中继提交服务实现
type relayService struct {
	url              string
	validateResponse bool
	httpClient       *http.Client
}

// NewService 创建中继提交服务
func NewService(config *Config) (Service, error) {
	if config == nil || config.URL == "" {
		return nil, fmt.Errorf("relay URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultSubmitTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &relayService{
		url:              config.URL,
		validateResponse: config.ValidateResponse,
		httpClient:       httpClient,
	}, nil
}

// Submit 提交已签名委托
func (s *relayService) Submit(ctx context.Context, signedDelegate *types.SignedDelegate) error {
	// 1. borsh 编码
	raw, err := signedDelegate.Serialize()
	if err != nil {
		return err
	}

	// 2. 中继协议要求 JSON 数值数组形式的字节序列
	body, err := json.Marshal(byteNumbers(raw))
	if err != nil {
		return fmt.Errorf("encode relay payload failed: %w", err)
	}

	// 3. POST 提交
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create relay request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return client.NewNetworkError(fmt.Errorf("submit to relay failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return client.NewInvalidResponseError(fmt.Sprintf("relay returned HTTP %d", resp.StatusCode))
	}

	// 4. 默认不解析响应体（发完即走）
	if !s.validateResponse {
		return nil
	}
	return s.checkOutcome(resp.Body)
}

// checkOutcome 解析中继返回的执行结果并检查失败状态
func (s *relayService) checkOutcome(body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return client.NewInvalidResponseError(fmt.Sprintf("read relay response failed: %v", err))
	}

	var outcome client.FinalExecutionOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return client.NewInvalidResponseError(fmt.Sprintf("invalid relay response: %v", err))
	}
	if outcome.Status.Failed() {
		return fmt.Errorf("relay rejected delegate action: %s", string(outcome.Status["Failure"]))
	}
	return nil
}

// byteNumbers 把字节序列转成 JSON 数值数组的元素形式
func byteNumbers(data []byte) []int {
	out := make([]int, len(data))
	for i, b := range data {
		out[i] = int(b)
	}
	return out
}
