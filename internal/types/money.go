// README: Common money value object used across modules.
package types

// DefaultCurrency is the single operating currency (CFA franc, no minor units).
const DefaultCurrency = "XOF"

type Money struct {
	Amount   int64
	Currency string
}

func XOF(amount int64) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}
