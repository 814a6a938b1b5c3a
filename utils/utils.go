package utils

// Units
const (
	SOL_UNIT = 1e9 // 1 SOL = 10^9 lamports

	EPSILON = 1e-9 // Infinite small value for float comparison
)

// SolToLamports converts a SOL amount to lamports.
// e.g. SolToLamports(1.5) => 1500000000
func SolToLamports(sol float64) uint64 {
	return uint64(sol*SOL_UNIT + 0.5)
}

// FloatRound rounds a float64 to a specified number of decimal places.
// e.g. FloatRound(3.14159, 2) => 3.14
func FloatRound(x float64, precision int) float64 {
	pow := 1.0
	for i := 0; i < precision; i++ {
		pow *= 10
	}
	if x < 0 {
		return -float64(int(-x*pow+0.5)) / pow
	}
	return float64(int(x*pow+0.5)) / pow
}
