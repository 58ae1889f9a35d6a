package database

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Tx is the transactional information between two parties. No validation of
// the addresses or the sign of the amount is performed.
type Tx struct {
	Sender    string `json:"sender"`    // Address of the account sending the amount.
	Recipient string `json:"recipient"` // Address of the account receiving the amount.
	Amount    int64  `json:"amount"`    // Amount being transferred.
}

// NewTx constructs a new transaction. Invalid UTF-8 in the addresses is
// replaced with U+FFFD so the transaction holds exactly what gets hashed.
func NewTx(sender string, recipient string, amount int64) Tx {
	return Tx{
		Sender:    toValidUTF8(sender),
		Recipient: toValidUTF8(recipient),
		Amount:    amount,
	}
}

// normalize returns the transaction as it appears in the canonical encoding.
func (tx Tx) normalize() Tx {
	return NewTx(tx.Sender, tx.Recipient, tx.Amount)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%d", tx.Sender, tx.Recipient, tx.Amount)
}

// toValidUTF8 replaces every run of invalid UTF-8 bytes with U+FFFD, the
// same substitution encoding/json makes.
func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}
