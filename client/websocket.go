package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// websocketClient WebSocket 客户端实现
type websocketClient struct {
	endpoint string
	conn     *websocket.Conn
	mu       sync.Mutex
	closed   atomic.Bool
	nextID   atomic.Uint64
	timeout  time.Duration
	requests map[uint64]chan *jsonRPCResponse
	muReq    sync.Mutex
}

// NewWebSocketClient 创建 WebSocket 客户端
func NewWebSocketClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// 将 http(s):// 转换为 ws(s)://
	endpoint := config.Endpoint
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + endpoint[len("http://"):]
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + endpoint[len("https://"):]
	case !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://"):
		endpoint = "ws://" + endpoint
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &websocketClient{
		endpoint: endpoint,
		conn:     conn,
		timeout:  timeout,
		requests: make(map[uint64]chan *jsonRPCResponse),
	}

	// 启动消息读取循环
	go c.readLoop()

	return c, nil
}

// readLoop 消息读取循环：按请求 ID 把响应分发到等待中的通道
func (c *websocketClient) readLoop() {
	for {
		if c.closed.Load() {
			return
		}

		var resp jsonRPCResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			// 连接关闭或读取错误：唤醒所有等待者
			c.muReq.Lock()
			for _, ch := range c.requests {
				close(ch)
			}
			c.requests = make(map[uint64]chan *jsonRPCResponse)
			c.muReq.Unlock()
			return
		}

		c.muReq.Lock()
		ch, exists := c.requests[resp.ID]
		if exists {
			delete(c.requests, resp.ID)
		}
		c.muReq.Unlock()

		if exists {
			select {
			case ch <- &resp:
			default:
			}
		}
	}
}

// Call 调用 JSON-RPC 方法
func (c *websocketClient) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("websocket client is closed")
	}

	reqID := c.nextID.Add(1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      reqID,
	}

	respCh := make(chan *jsonRPCResponse, 1)
	c.muReq.Lock()
	c.requests[reqID] = respCh
	c.muReq.Unlock()

	c.mu.Lock()
	err := c.conn.WriteJSON(req)
	c.mu.Unlock()
	if err != nil {
		c.dropRequest(reqID)
		return nil, NewNetworkError(fmt.Errorf("write request: %w", err))
	}

	select {
	case resp, ok := <-respCh:
		if !ok {
			return nil, NewNetworkError(fmt.Errorf("websocket connection closed"))
		}
		if resp.Error != nil {
			return nil, NewRPCError(resp.Error.Code, resp.Error.Message, resp.Error.Data)
		}
		return resp.Result, nil

	case <-ctx.Done():
		c.dropRequest(reqID)
		return nil, ctx.Err()

	case <-time.After(c.timeout):
		c.dropRequest(reqID)
		return nil, NewTimeoutError()
	}
}

// dropRequest 取消一个等待中的请求
func (c *websocketClient) dropRequest(reqID uint64) {
	c.muReq.Lock()
	delete(c.requests, reqID)
	c.muReq.Unlock()
}

// Close 关闭连接
func (c *websocketClient) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			return c.conn.Close()
		}
	}
	return nil
}
