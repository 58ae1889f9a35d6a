// Package balance maintains address balances in memory. Balances are a
// view computed from the transactions in the chain and are not enforced
// when transactions are recorded.
package balance

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Sheet represents the data representation to maintain address balances.
type Sheet struct {
	sheet map[string]int64
	mu    sync.RWMutex
}

// NewSheet constructs a new balance sheet for use, expects a starting
// balance sheet which can be nil.
func NewSheet(sheet map[string]int64) *Sheet {
	bs := Sheet{
		sheet: make(map[string]int64),
	}

	if sheet != nil {
		bs.Reset(sheet)
	}

	return &bs
}

// FromChain replays every transaction in the chain into a new sheet.
// Transactions from the mint sender only credit the recipient.
func FromChain(chain []database.Block, mintSender string) *Sheet {
	bs := NewSheet(nil)

	for _, block := range chain {
		for _, tx := range block.Transactions {
			bs.ApplyTransaction(tx, mintSender)
		}
	}

	return bs
}

// Reset takes the specified sheet and resets the balances.
func (bs *Sheet) Reset(sheet map[string]int64) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	bs.sheet = make(map[string]int64)
	for address, value := range sheet {
		bs.sheet[address] = value
	}
}

// Copy makes a copy of the current balance sheet but returns the raw data.
func (bs *Sheet) Copy() map[string]int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	sheet := make(map[string]int64)
	for address, value := range bs.sheet {
		sheet[address] = value
	}
	return sheet
}

// Balance returns the balance for the address.
func (bs *Sheet) Balance(address string) int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.sheet[address]
}

// ApplyTransaction moves the amount of the transaction from the sender to
// the recipient. Balances are allowed to go negative.
func (bs *Sheet) ApplyTransaction(tx database.Tx, mintSender string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if tx.Sender != mintSender {
		bs.sheet[tx.Sender] -= tx.Amount
	}
	bs.sheet[tx.Recipient] += tx.Amount
}
