// summary.go - Spending breakdown derived from the transaction log.
//
// Summaries are computed by replaying History, never from side state.
// Averages use decimal arithmetic to avoid float drift on large logs.
package tokens

import (
	"context"

	"github.com/shopspring/decimal"
)

// Summary is a read-only spending breakdown for one user.
type Summary struct {
	User           Identity          `json:"user"`
	Transactions   int               `json:"transactions"`
	AverageAmount  decimal.Decimal   `json:"average_amount"`
	SpentByService map[string]uint64 `json:"spent_by_service"`
}

// Summarize computes the spending summary for user. A user with no
// transactions yields an empty summary, not an error.
func (l *Ledger) Summarize(ctx context.Context, user Identity) Summary {
	txs := l.History(ctx, user)

	s := Summary{
		User:           user,
		Transactions:   len(txs),
		AverageAmount:  decimal.Zero,
		SpentByService: make(map[string]uint64),
	}
	if len(txs) == 0 {
		return s
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromUint64(tx.Magnitude()))
		if !tx.Credit() && tx.ServiceType != "" {
			s.SpentByService[tx.ServiceType] += tx.Magnitude()
		}
	}
	s.AverageAmount = total.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)
	return s
}
