package types

import (
	"math/big"

	"github.com/near/borsh-go"
)

// AccessKey 链上访问密钥
//
// 把一个公钥绑定到账户上的授权记录，携带权限范围和防重放 nonce。
// 交易的 nonce 必须严格大于访问密钥当前的 nonce。
type AccessKey struct {
	Nonce      uint64
	Permission AccessKeyPermission
}

// AccessKeyPermission 访问密钥权限（borsh 枚举）
// 变体顺序由协议固定：0 = FunctionCall，1 = FullAccess
type AccessKeyPermission struct {
	Enum         borsh.Enum `borsh_enum:"true"`
	FunctionCall FunctionCallPermission
	FullAccess   FullAccessPermission
}

const (
	permissionFunctionCall uint8 = iota
	permissionFullAccess
)

// FunctionCallPermission 函数调用级权限
// 只允许对固定合约的白名单方法发起不附带存款的调用
type FunctionCallPermission struct {
	// Allowance 可消耗的 gas 费用上限（u128），nil 表示不限
	Allowance *big.Int
	// ReceiverID 被授权的合约账户
	ReceiverID string
	// MethodNames 允许调用的方法白名单，空表示该合约的全部方法
	MethodNames []string
}

// FullAccessPermission 完全访问权限
type FullAccessPermission struct{}

// FullAccessKey 构建一个完全访问密钥（nonce 从 0 开始）
func FullAccessKey() AccessKey {
	return AccessKey{
		Permission: AccessKeyPermission{
			Enum:       borsh.Enum(permissionFullAccess),
			FullAccess: FullAccessPermission{},
		},
	}
}

// FunctionCallAccessKey 构建一个函数调用级访问密钥
func FunctionCallAccessKey(receiverID string, methodNames []string, allowance *big.Int) AccessKey {
	return AccessKey{
		Permission: AccessKeyPermission{
			Enum: borsh.Enum(permissionFunctionCall),
			FunctionCall: FunctionCallPermission{
				Allowance:   allowance,
				ReceiverID:  receiverID,
				MethodNames: methodNames,
			},
		},
	}
}

// IsFullAccess 是否为完全访问权限
func (p AccessKeyPermission) IsFullAccess() bool {
	return uint8(p.Enum) == permissionFullAccess
}

// GetFunctionCall 返回函数调用权限（若是该变体）
func (p AccessKeyPermission) GetFunctionCall() (FunctionCallPermission, bool) {
	if uint8(p.Enum) == permissionFunctionCall {
		return p.FunctionCall, true
	}
	return FunctionCallPermission{}, false
}
