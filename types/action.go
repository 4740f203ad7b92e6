package types

import (
	"math/big"

	"github.com/near/borsh-go"
)

// ActionKind 动作变体类型
type ActionKind uint8

// 动作变体顺序由协议的 borsh 编码固定，不可调整
const (
	ActionKindCreateAccount ActionKind = iota
	ActionKindDeployContract
	ActionKindFunctionCall
	ActionKindTransfer
	ActionKindStake
	ActionKindAddKey
	ActionKindDeleteKey
	ActionKindDeleteAccount
	ActionKindDelegate
)

// String 返回动作变体名称
func (k ActionKind) String() string {
	switch k {
	case ActionKindCreateAccount:
		return "CreateAccount"
	case ActionKindDeployContract:
		return "DeployContract"
	case ActionKindFunctionCall:
		return "FunctionCall"
	case ActionKindTransfer:
		return "Transfer"
	case ActionKindStake:
		return "Stake"
	case ActionKindAddKey:
		return "AddKey"
	case ActionKindDeleteKey:
		return "DeleteKey"
	case ActionKindDeleteAccount:
		return "DeleteAccount"
	case ActionKindDelegate:
		return "Delegate"
	default:
		return "Unknown"
	}
}

// Action 交易动作（borsh 标签联合）
//
// SDK 核心把 Action 视为不透明的透传载荷：除了整体作为密钥解析和编码的
// 原子输入之外，不会对其内容做分支处理。
type Action struct {
	Enum           borsh.Enum `borsh_enum:"true"`
	CreateAccount  CreateAccount
	DeployContract DeployContract
	FunctionCall   FunctionCall
	Transfer       Transfer
	Stake          Stake
	AddKey         AddKey
	DeleteKey      DeleteKey
	DeleteAccount  DeleteAccount
	Delegate       SignedDelegate
}

// CreateAccount 创建账户
type CreateAccount struct{}

// DeployContract 部署合约
type DeployContract struct {
	Code []byte
}

// FunctionCall 合约函数调用
type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        uint64
	Deposit    big.Int
}

// Transfer 原生代币转账
type Transfer struct {
	Deposit big.Int
}

// Stake 质押
type Stake struct {
	Stake     big.Int
	PublicKey PublicKey
}

// AddKey 给账户添加访问密钥
type AddKey struct {
	PublicKey PublicKey
	AccessKey AccessKey
}

// DeleteKey 删除访问密钥
type DeleteKey struct {
	PublicKey PublicKey
}

// DeleteAccount 删除账户，余额转给受益人
type DeleteAccount struct {
	BeneficiaryID string
}

// Kind 返回动作变体类型
func (a Action) Kind() ActionKind {
	return ActionKind(a.Enum)
}

// GetFunctionCall 返回函数调用载荷（若是该变体）
func (a Action) GetFunctionCall() (FunctionCall, bool) {
	if a.Kind() == ActionKindFunctionCall {
		return a.FunctionCall, true
	}
	return FunctionCall{}, false
}

// NewCreateAccountAction 构建创建账户动作
func NewCreateAccountAction() Action {
	return Action{Enum: borsh.Enum(ActionKindCreateAccount)}
}

// NewDeployContractAction 构建部署合约动作
func NewDeployContractAction(code []byte) Action {
	return Action{
		Enum:           borsh.Enum(ActionKindDeployContract),
		DeployContract: DeployContract{Code: code},
	}
}

// NewFunctionCallAction 构建函数调用动作
func NewFunctionCallAction(methodName string, args []byte, gas uint64, deposit *big.Int) Action {
	a := Action{
		Enum: borsh.Enum(ActionKindFunctionCall),
		FunctionCall: FunctionCall{
			MethodName: methodName,
			Args:       args,
			Gas:        gas,
		},
	}
	if deposit != nil {
		a.FunctionCall.Deposit = *deposit
	}
	return a
}

// NewTransferAction 构建转账动作
func NewTransferAction(deposit *big.Int) Action {
	a := Action{Enum: borsh.Enum(ActionKindTransfer)}
	if deposit != nil {
		a.Transfer.Deposit = *deposit
	}
	return a
}

// NewStakeAction 构建质押动作
func NewStakeAction(stake *big.Int, publicKey PublicKey) Action {
	a := Action{
		Enum:  borsh.Enum(ActionKindStake),
		Stake: Stake{PublicKey: publicKey},
	}
	if stake != nil {
		a.Stake.Stake = *stake
	}
	return a
}

// NewAddKeyAction 构建添加密钥动作
func NewAddKeyAction(publicKey PublicKey, accessKey AccessKey) Action {
	return Action{
		Enum:   borsh.Enum(ActionKindAddKey),
		AddKey: AddKey{PublicKey: publicKey, AccessKey: accessKey},
	}
}

// NewDeleteKeyAction 构建删除密钥动作
func NewDeleteKeyAction(publicKey PublicKey) Action {
	return Action{
		Enum:      borsh.Enum(ActionKindDeleteKey),
		DeleteKey: DeleteKey{PublicKey: publicKey},
	}
}

// NewDeleteAccountAction 构建删除账户动作
func NewDeleteAccountAction(beneficiaryID string) Action {
	return Action{
		Enum:          borsh.Enum(ActionKindDeleteAccount),
		DeleteAccount: DeleteAccount{BeneficiaryID: beneficiaryID},
	}
}

// NewDelegateAction 构建委托动作（包装一个已签名的委托载荷）
func NewDelegateAction(signed SignedDelegate) Action {
	return Action{
		Enum:     borsh.Enum(ActionKindDelegate),
		Delegate: signed,
	}
}
