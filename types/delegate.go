package types

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"
)

// delegateActionPrefix 离链可签名消息的判别前缀（NEP-461）
// 取值 2^30 + 366，保证委托载荷的签名域与普通交易不重叠
const delegateActionPrefix uint32 = (1 << 30) + 366

// DelegateAction 委托动作（meta-transaction 载荷，NEP-366）
//
// 授权第三方（中继服务）在有限的区块高度窗口内代替签名者提交并代付
// 其中包裹的动作。有效期用区块高度窗口表达，不是墙钟时间。
type DelegateAction struct {
	// SenderID 被代付的账户（动作的真正签名者）
	SenderID string
	// ReceiverID 动作的目标账户
	ReceiverID string
	// Actions 被包裹的动作，不允许嵌套 Delegate
	Actions []Action
	// Nonce 必须大于签名密钥当前 nonce
	Nonce uint64
	// MaxBlockHeight 有效期上限（区块高度）
	MaxBlockHeight uint64
	// PublicKey 签名公钥
	PublicKey PublicKey
}

// SignableBytes 返回委托动作的可签名编码：判别前缀（u32 LE）+ borsh 编码
func (d *DelegateAction) SignableBytes() ([]byte, error) {
	// 委托载荷禁止递归包裹
	for _, a := range d.Actions {
		if a.Kind() == ActionKindDelegate {
			return nil, fmt.Errorf("delegate action cannot contain a nested delegate action")
		}
	}

	body, err := borsh.Serialize(*d)
	if err != nil {
		return nil, fmt.Errorf("serialize delegate action failed: %w", err)
	}

	buf := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(buf, delegateActionPrefix)
	return append(buf, body...), nil
}

// Hash 计算委托动作哈希（sha256 over 可签名编码）
func (d *DelegateAction) Hash() ([32]byte, error) {
	data, err := d.SignableBytes()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Sign 用签名器对委托动作签名，产出交给中继的 SignedDelegate
func (d *DelegateAction) Sign(signer Signer) (*SignedDelegate, error) {
	hash, err := d.Hash()
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(hash[:])
	if err != nil {
		return nil, fmt.Errorf("sign delegate action failed: %w", err)
	}

	return &SignedDelegate{
		DelegateAction: *d,
		Signature:      sig,
	}, nil
}

// SignedDelegate 已签名委托载荷
// 每次调用新建，中继提交后即丢弃，核心不保留重试状态
type SignedDelegate struct {
	DelegateAction DelegateAction
	Signature      Signature
}

// Serialize 返回已签名委托的 borsh 规范编码（中继传输用）
func (sd *SignedDelegate) Serialize() ([]byte, error) {
	data, err := borsh.Serialize(*sd)
	if err != nil {
		return nil, fmt.Errorf("serialize signed delegate failed: %w", err)
	}
	return data, nil
}
