package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Method IDs of the position manager and ERC-20 calls the service issues.
var (
	positionsMethodID         = common.FromHex("99fbab88") // positions(uint256)
	ownerOfMethodID           = common.FromHex("6352211e") // ownerOf(uint256)
	decreaseLiquidityMethodID = common.FromHex("0c49ccbe") // decreaseLiquidity((uint256,uint128,uint256,uint256,uint256))
	collectMethodID           = common.FromHex("fc6f7865") // collect((uint256,address,uint128,uint128))
	safeTransferFromMethodID  = common.FromHex("42842e0e") // safeTransferFrom(address,address,uint256)
	erc20TransferMethodID     = common.FromHex("a9059cbb") // transfer(address,uint256)
)

const wordLength = 32

// Return data layout of positions(uint256). All fields are static, one
// 32-byte word each.
const (
	positionsWordToken0      = 2
	positionsWordToken1      = 3
	positionsWordLiquidity   = 7
	positionsWordTokensOwed0 = 10
	positionsWordTokensOwed1 = 11
	positionsWordCount       = 12
)

func packCall(methodID []byte, words ...[]byte) []byte {
	data := make([]byte, 0, len(methodID)+len(words)*wordLength)
	data = append(data, methodID...)
	for _, w := range words {
		data = append(data, w...)
	}
	return data
}

func packAddress(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), wordLength)
}

func packBig(v *big.Int) []byte {
	return common.BigToHash(v).Bytes()
}

func word(resp []byte, index int) ([]byte, error) {
	offset := index * wordLength
	if len(resp) < offset+wordLength {
		return nil, errors.Errorf("response too short: want word %d, got %d bytes", index, len(resp))
	}
	return resp[offset : offset+wordLength], nil
}

func wordBig(resp []byte, index int) (*big.Int, error) {
	w, err := word(resp, index)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(w), nil
}

func wordAddress(resp []byte, index int) (common.Address, error) {
	w, err := word(resp, index)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(w), nil
}
