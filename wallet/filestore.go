package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keystoreVersion = 1
	kdfIterations   = 262144
	kdfKeyLength    = 32
)

// keystoreFile Keystore文件结构
type keystoreFile struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	Network   string         `json:"network"`
	AccountID string         `json:"account_id"`
	Crypto    keystoreCrypto `json:"crypto"`
}

// keystoreCrypto 加密信息
type keystoreCrypto struct {
	Cipher       string             `json:"cipher"`
	CipherText   string             `json:"ciphertext"`
	CipherParams keystoreCipherArgs `json:"cipherparams"`
	KDF          string             `json:"kdf"`
	KDFParams    keystoreKDFArgs    `json:"kdfparams"`
	MAC          string             `json:"mac"`
}

// keystoreCipherArgs 加密参数
type keystoreCipherArgs struct {
	IV string `json:"iv"`
}

// keystoreKDFArgs 密钥派生参数
type keystoreKDFArgs struct {
	C     int    `json:"c"`
	DKLen int    `json:"dklen"`
	PRF   string `json:"prf"`
	Salt  string `json:"salt"`
}

// FileKeyStore 加密文件密钥存储
//
// 每个 (network, accountID) 对应一个 JSON 文件，私钥用口令派生密钥
// （PBKDF2-HMAC-SHA256）做 AES-128-CTR 加密，并附带 MAC 校验。
type FileKeyStore struct {
	dir        string
	passphrase string
}

// NewFileKeyStore 创建加密文件密钥存储
func NewFileKeyStore(dir, passphrase string) (*FileKeyStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &FileKeyStore{dir: dir, passphrase: passphrase}, nil
}

// filePath 返回存储文件路径
func (s *FileKeyStore) filePath(network, accountID string) string {
	// 账户标识可能含路径分隔符以外的特殊字符，hex 化后做文件名
	name := fmt.Sprintf("%s-%s.json", network, hex.EncodeToString([]byte(accountID)))
	return filepath.Join(s.dir, name)
}

// Put 加密并写入密钥
func (s *FileKeyStore) Put(network, accountID string, keyPair *KeyPair) error {
	if keyPair == nil {
		return fmt.Errorf("key pair cannot be nil")
	}

	// 1. 生成随机salt和IV
	salt := make([]byte, 32)
	iv := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("generate iv: %w", err)
	}

	// 2. 派生密钥
	key := deriveKey(s.passphrase, salt)

	// 3. 加密私钥（导出串里带曲线前缀，读取时直接解析）
	ciphertext, err := cipherAES(key[:16], []byte(keyPair.String()), iv)
	if err != nil {
		return fmt.Errorf("encrypt secret key: %w", err)
	}

	// 4. 计算MAC
	mac := computeMAC(key, ciphertext)

	// 5. 构建Keystore结构
	ks := &keystoreFile{
		Version:   keystoreVersion,
		ID:        uuid.NewString(),
		Network:   network,
		AccountID: accountID,
		Crypto: keystoreCrypto{
			Cipher:     "aes-128-ctr",
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: keystoreCipherArgs{
				IV: hex.EncodeToString(iv),
			},
			KDF: "pbkdf2",
			KDFParams: keystoreKDFArgs{
				C:     kdfIterations,
				DKLen: kdfKeyLength,
				PRF:   "hmac-sha256",
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}

	// 6. 保存到文件
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return fmt.Errorf("encode keystore: %w", err)
	}
	if err := os.WriteFile(s.filePath(network, accountID), data, 0600); err != nil {
		return fmt.Errorf("write keystore file: %w", err)
	}
	return nil
}

// Get 读取并解密密钥，不存在时返回 ErrKeyNotFound
func (s *FileKeyStore) Get(network, accountID string) (*KeyPair, error) {
	// 1. 读取Keystore文件
	data, err := os.ReadFile(s.filePath(network, accountID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("read keystore file: %w", err)
	}

	// 2. 解析Keystore
	var ks keystoreFile
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if ks.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version: %d", ks.Version)
	}

	// 3. 提取参数
	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(ks.Crypto.CipherText)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	// 4. 派生密钥
	key := deriveKey(s.passphrase, salt)

	// 5. 验证MAC
	expectedMAC := computeMAC(key, ciphertext)
	actualMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, fmt.Errorf("decode mac: %w", err)
	}
	if subtle.ConstantTimeCompare(expectedMAC, actualMAC) != 1 {
		return nil, fmt.Errorf("invalid passphrase")
	}

	// 6. 解密私钥
	secret, err := cipherAES(key[:16], ciphertext, iv)
	if err != nil {
		return nil, fmt.Errorf("decrypt secret key: %w", err)
	}
	return ParseKeyPair(string(secret))
}

// Delete 删除密钥文件
func (s *FileKeyStore) Delete(network, accountID string) error {
	err := os.Remove(s.filePath(network, accountID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove keystore file: %w", err)
	}
	return nil
}

// Accounts 返回某网络下已存储密钥的账户列表
func (s *FileKeyStore) Accounts(network string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	prefix := network + "-"
	accounts := make([]string, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		encoded := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		raw, err := hex.DecodeString(encoded)
		if err != nil {
			continue
		}
		accounts = append(accounts, string(raw))
	}
	sort.Strings(accounts)
	return accounts, nil
}

// deriveKey 派生密钥（PBKDF2-HMAC-SHA256）
func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, kdfIterations, kdfKeyLength, sha256.New)
}

// cipherAES AES-CTR 加解密（对称操作）
func cipherAES(key, input, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	stream := cipher.NewCTR(block, iv)
	output := make([]byte, len(input))
	stream.XORKeyStream(output, input)
	return output, nil
}

// computeMAC 计算 MAC（sha256(key || ciphertext)）
func computeMAC(key, ciphertext []byte) []byte {
	hash := sha256.Sum256(append(append([]byte{}, key...), ciphertext...))
	return hash[:]
}
