package transaction

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenlabs/wallet-sdk-go/client"
	"github.com/lumenlabs/wallet-sdk-go/types"
	"github.com/lumenlabs/wallet-sdk-go/wallet"
)

// fakeChain 测试用链客户端
type fakeChain struct {
	nonce      uint64
	noKeyFor   map[string]bool // receiver -> 密钥越权
	keyErr     error
	blockErr   error
	blockCalls int
}

func (c *fakeChain) AccessKeyForTransaction(ctx context.Context, accountID string, publicKey types.PublicKey, receiverID string, actions []types.Action) (*client.AccessKeyView, error) {
	if c.keyErr != nil {
		return nil, c.keyErr
	}
	if c.noKeyFor[receiverID] {
		return nil, nil
	}
	return &client.AccessKeyView{
		Nonce:      c.nonce,
		Permission: client.PermissionView{FullAccess: true},
	}, nil
}

func (c *fakeChain) FinalBlockHash(ctx context.Context) ([32]byte, error) {
	if c.blockErr != nil {
		return [32]byte{}, c.blockErr
	}
	c.blockCalls++
	var hash [32]byte
	// 每次返回不同的哈希，模拟链头推进
	hash[0] = byte(c.blockCalls)
	return hash, nil
}

func testKeyPair(t *testing.T) *wallet.KeyPair {
	t.Helper()
	kp, err := wallet.GenerateKeyPair(types.KeyTypeED25519)
	require.NoError(t, err)
	return kp
}

func transferRequest(receiver string) *Request {
	return &Request{
		ReceiverID: receiver,
		Actions:    []types.Action{types.NewTransferAction(big.NewInt(100))},
	}
}

func TestCreateTransactionsNonceSequence(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{nonce: 10}
	svc := NewService(chain)
	kp := testKeyPair(t)

	reqs := []*Request{
		transferRequest("bob.testnet"),
		transferRequest("carol.testnet"),
		transferRequest("dave.testnet"),
	}

	txs, err := svc.CreateTransactions(ctx, "alice.testnet", kp.PublicKey(), reqs)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// 批内第 i 笔 nonce 为 n+i+1
	for i, tx := range txs {
		assert.Equal(t, uint64(10+i+1), tx.Nonce, "transaction %d", i)
		assert.Equal(t, "alice.testnet", tx.SignerID)
		assert.Equal(t, reqs[i].ReceiverID, tx.ReceiverID)
	}

	// 每笔交易单独拉取区块哈希
	assert.Equal(t, 3, chain.blockCalls)
	assert.NotEqual(t, txs[0].BlockHash, txs[1].BlockHash)
}

func TestCreateTransactionsNoAccessKey(t *testing.T) {
	ctx := context.Background()
	chain := &fakeChain{nonce: 10, noKeyFor: map[string]bool{"carol.testnet": true}}
	svc := NewService(chain)
	kp := testKeyPair(t)

	reqs := []*Request{
		transferRequest("bob.testnet"),
		transferRequest("carol.testnet"),
		transferRequest("dave.testnet"),
	}

	txs, err := svc.CreateTransactions(ctx, "alice.testnet", kp.PublicKey(), reqs)
	require.Error(t, err)
	assert.True(t, client.IsNoAccessKey(err))
	// 错误信息带上出问题的 receiver
	assert.Contains(t, err.Error(), "carol.testnet")

	// 已装配完成的交易随错误一起返回
	require.Len(t, txs, 1)
	assert.Equal(t, "bob.testnet", txs[0].ReceiverID)
}

func TestCreateTransactionsSignerMismatch(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeChain{nonce: 1})
	kp := testKeyPair(t)

	req := transferRequest("bob.testnet")
	req.SignerID = "mallory.testnet"

	_, err := svc.CreateTransactions(ctx, "alice.testnet", kp.PublicKey(), []*Request{req})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mallory.testnet")
}

func TestCreateTransactionsChainErrors(t *testing.T) {
	ctx := context.Background()
	kp := testKeyPair(t)

	t.Run("key resolution error", func(t *testing.T) {
		svc := NewService(&fakeChain{keyErr: errors.New("node unreachable")})
		_, err := svc.CreateTransaction(ctx, "alice.testnet", kp.PublicKey(), transferRequest("bob.testnet"))
		require.Error(t, err)
	})

	t.Run("block fetch error", func(t *testing.T) {
		svc := NewService(&fakeChain{blockErr: errors.New("node unreachable")})
		_, err := svc.CreateTransaction(ctx, "alice.testnet", kp.PublicKey(), transferRequest("bob.testnet"))
		require.Error(t, err)
	})
}

func TestSignTransaction(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeChain{nonce: 7})
	kp := testKeyPair(t)

	tx, err := svc.CreateTransaction(ctx, "alice.testnet", kp.PublicKey(), transferRequest("bob.testnet"))
	require.NoError(t, err)

	signedTx, err := svc.SignTransaction(tx, kp)
	require.NoError(t, err)

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.True(t, kp.PublicKey().Verify(hash[:], signedTx.Signature))
}
