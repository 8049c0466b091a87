package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "4c0883a69102937d6231471b5dbb6204fe512961708279f2e3e8a5d4b8e3e974"

func TestNewSignerDerivesAddress(t *testing.T) {
	signer, err := NewSigner(testPrivateKey, 1)
	require.NoError(t, err)

	key, err := crypto.HexToECDSA(testPrivateKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer.Address())

	// A 0x prefix is accepted.
	prefixed, err := NewSigner("0x"+testPrivateKey, 1)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), prefixed.Address())
}

func TestNewSignerRejectsGarbage(t *testing.T) {
	_, err := NewSigner("not-a-key", 1)
	require.Error(t, err)
}

func TestSignTx(t *testing.T) {
	const chainID = 31337

	signer, err := NewSigner(testPrivateKey, chainID)
	require.NoError(t, err)

	to := common.HexToAddress("0x3000000000000000000000000000000000000003")
	tx, err := signer.SignTx(7, to, big.NewInt(0), 100000, big.NewInt(1), big.NewInt(2), []byte{0x01, 0x02})
	require.NoError(t, err)

	assert.Equal(t, uint8(types.DynamicFeeTxType), tx.Type())
	assert.EqualValues(t, chainID, tx.ChainId().Int64())
	assert.EqualValues(t, 7, tx.Nonce())

	sender, err := types.Sender(types.NewLondonSigner(big.NewInt(chainID)), tx)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), sender)
}
