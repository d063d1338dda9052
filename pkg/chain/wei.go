package chain

import (
	"math/big"
)

var weiPerMon = new(big.Float).SetFloat64(1e18)

// MonToWei converts a MON amount to the chain's base unit.
func MonToWei(amount float64) *big.Int {
	wei, _ := new(big.Float).Mul(new(big.Float).SetFloat64(amount), weiPerMon).Int(nil)
	return wei
}

// WeiToMon converts a base-unit amount back to MON for display.
func WeiToMon(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	mon, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerMon).Float64()
	return mon
}
