package types

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/near/borsh-go"
)

func TestActionKind(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   ActionKind
	}{
		{name: "create account", action: NewCreateAccountAction(), want: ActionKindCreateAccount},
		{name: "transfer", action: NewTransferAction(big.NewInt(1)), want: ActionKindTransfer},
		{name: "function call", action: NewFunctionCallAction("ping", nil, 0, nil), want: ActionKindFunctionCall},
		{name: "delete account", action: NewDeleteAccountAction("bob.testnet"), want: ActionKindDeleteAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.action.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransferActionEncoding(t *testing.T) {
	action := NewTransferAction(big.NewInt(1))

	data, err := borsh.Serialize(action)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	// 变体标签 1 字节 + u128 金额 16 字节
	if len(data) != 17 {
		t.Fatalf("encoded length = %d, want 17", len(data))
	}
	if data[0] != byte(ActionKindTransfer) {
		t.Errorf("variant tag = %d, want %d", data[0], ActionKindTransfer)
	}
	// u128 小端：金额 1
	want := append([]byte{1}, bytes.Repeat([]byte{0}, 15)...)
	if !bytes.Equal(data[1:], want) {
		t.Errorf("deposit bytes = %x, want %x", data[1:], want)
	}
}

func TestFunctionCallActionEncoding(t *testing.T) {
	action := NewFunctionCallAction("add_message", []byte(`{"text":"hi"}`), 30_000_000_000_000, nil)

	data, err := borsh.Serialize(action)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if data[0] != byte(ActionKindFunctionCall) {
		t.Errorf("variant tag = %d, want %d", data[0], ActionKindFunctionCall)
	}

	var decoded Action
	if err := borsh.Deserialize(&decoded, data); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	fc, ok := decoded.GetFunctionCall()
	if !ok {
		t.Fatal("GetFunctionCall() = false after decode")
	}
	if fc.MethodName != "add_message" {
		t.Errorf("MethodName = %q, want add_message", fc.MethodName)
	}
	if fc.Gas != 30_000_000_000_000 {
		t.Errorf("Gas = %d", fc.Gas)
	}
	if fc.Deposit.Sign() != 0 {
		t.Errorf("Deposit = %s, want 0", fc.Deposit.String())
	}
}

func TestGetFunctionCallOnOtherVariant(t *testing.T) {
	action := NewTransferAction(big.NewInt(5))
	if _, ok := action.GetFunctionCall(); ok {
		t.Error("GetFunctionCall() on transfer = true, want false")
	}
}

func TestAccessKeyEncoding(t *testing.T) {
	full := FullAccessKey()
	data, err := borsh.Serialize(full)
	if err != nil {
		t.Fatalf("serialize full access key: %v", err)
	}
	// nonce u64 + 权限变体标签（FullAccess = 1）
	if len(data) != 9 {
		t.Fatalf("encoded length = %d, want 9", len(data))
	}
	if data[8] != 1 {
		t.Errorf("permission tag = %d, want 1 (full access)", data[8])
	}

	fc := FunctionCallAccessKey("guestbook.testnet", []string{"add_message"}, big.NewInt(100))
	data, err = borsh.Serialize(fc)
	if err != nil {
		t.Fatalf("serialize function call key: %v", err)
	}
	if data[8] != 0 {
		t.Errorf("permission tag = %d, want 0 (function call)", data[8])
	}

	var decoded AccessKey
	if err := borsh.Deserialize(&decoded, data); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	perm, ok := decoded.Permission.GetFunctionCall()
	if !ok {
		t.Fatal("GetFunctionCall() = false")
	}
	if perm.ReceiverID != "guestbook.testnet" {
		t.Errorf("ReceiverID = %q", perm.ReceiverID)
	}
	if perm.Allowance == nil || perm.Allowance.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("Allowance = %v, want 100", perm.Allowance)
	}
}
