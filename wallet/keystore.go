package wallet

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrKeyNotFound 密钥不存在
var ErrKeyNotFound = errors.New("key not found")

// KeyStore 本地密钥存储接口
//
// 以 (network, accountID) 为键的不透明存储：
// - 会话建立时由托管服务的握手流程写入
// - 密钥解析阶段只读
// - 登出时清除
type KeyStore interface {
	// Put 写入密钥
	Put(network, accountID string, keyPair *KeyPair) error

	// Get 读取密钥，不存在时返回 ErrKeyNotFound
	Get(network, accountID string) (*KeyPair, error)

	// Delete 删除密钥，不存在时为幂等空操作
	Delete(network, accountID string) error

	// Accounts 返回某网络下已存储密钥的账户列表（升序）
	Accounts(network string) ([]string, error)
}

// InMemoryKeyStore 内存密钥存储（用于测试和短生命周期会话）
type InMemoryKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*KeyPair
}

// NewInMemoryKeyStore 创建内存密钥存储
func NewInMemoryKeyStore() *InMemoryKeyStore {
	return &InMemoryKeyStore{
		keys: make(map[string]*KeyPair),
	}
}

// storeKey 组合 (network, accountID) 存储键
func storeKey(network, accountID string) string {
	return fmt.Sprintf("%s:%s", network, accountID)
}

// Put 写入密钥
func (s *InMemoryKeyStore) Put(network, accountID string, keyPair *KeyPair) error {
	if keyPair == nil {
		return fmt.Errorf("key pair cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[storeKey(network, accountID)] = keyPair
	return nil
}

// Get 读取密钥
func (s *InMemoryKeyStore) Get(network, accountID string) (*KeyPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kp, ok := s.keys[storeKey(network, accountID)]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return kp, nil
}

// Delete 删除密钥
func (s *InMemoryKeyStore) Delete(network, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, storeKey(network, accountID))
	return nil
}

// Accounts 返回某网络下的账户列表
func (s *InMemoryKeyStore) Accounts(network string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := network + ":"
	accounts := make([]string, 0)
	for key := range s.keys {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			accounts = append(accounts, key[len(prefix):])
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}
