package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackCall(t *testing.T) {
	addr := common.HexToAddress("0x4000000000000000000000000000000000000004")
	id := big.NewInt(42)

	data := packCall(ownerOfMethodID, packBig(id))
	require.Len(t, data, 4+wordLength)
	assert.Equal(t, "6352211e", common.Bytes2Hex(data[:4]))
	assert.Equal(t, id, new(big.Int).SetBytes(data[4:]))

	data = packCall(safeTransferFromMethodID, packAddress(addr), packAddress(addr), packBig(id))
	require.Len(t, data, 4+3*wordLength)
	assert.Equal(t, "42842e0e", common.Bytes2Hex(data[:4]))
}

func TestPackAddressPadding(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")

	w := packAddress(addr)
	require.Len(t, w, wordLength)
	for _, b := range w[:wordLength-1] {
		assert.Zero(t, b)
	}
	assert.EqualValues(t, 1, w[wordLength-1])
}

func TestWordDecoding(t *testing.T) {
	addr := common.HexToAddress("0x4000000000000000000000000000000000000004")
	resp := append(packAddress(addr), packBig(big.NewInt(1234))...)

	decoded, err := wordAddress(resp, 0)
	require.NoError(t, err)
	assert.Equal(t, addr, decoded)

	amount, err := wordBig(resp, 1)
	require.NoError(t, err)
	assert.Equal(t, "1234", amount.String())

	_, err = word(resp, 2)
	require.Error(t, err)
}

func TestPositionsResponseLayout(t *testing.T) {
	token0 := common.HexToAddress("0x6000000000000000000000000000000000000006")
	token1 := common.HexToAddress("0x7000000000000000000000000000000000000007")

	resp := make([]byte, 0, positionsWordCount*wordLength)
	for i := 0; i < positionsWordCount; i++ {
		switch i {
		case positionsWordToken0:
			resp = append(resp, packAddress(token0)...)
		case positionsWordToken1:
			resp = append(resp, packAddress(token1)...)
		case positionsWordLiquidity:
			resp = append(resp, packBig(big.NewInt(1000))...)
		case positionsWordTokensOwed0:
			resp = append(resp, packBig(big.NewInt(5))...)
		case positionsWordTokensOwed1:
			resp = append(resp, packBig(big.NewInt(7))...)
		default:
			resp = append(resp, make([]byte, wordLength)...)
		}
	}

	gotToken0, err := wordAddress(resp, positionsWordToken0)
	require.NoError(t, err)
	assert.Equal(t, token0, gotToken0)

	gotToken1, err := wordAddress(resp, positionsWordToken1)
	require.NoError(t, err)
	assert.Equal(t, token1, gotToken1)

	liquidity, err := wordBig(resp, positionsWordLiquidity)
	require.NoError(t, err)
	assert.Equal(t, "1000", liquidity.String())

	owed0, err := wordBig(resp, positionsWordTokensOwed0)
	require.NoError(t, err)
	assert.Equal(t, "5", owed0.String())

	owed1, err := wordBig(resp, positionsWordTokensOwed1)
	require.NoError(t, err)
	assert.Equal(t, "7", owed1.String())
}
