package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// newTx is the payload for submitting a transaction. The fields are
// pointers so a missing field can be told apart from a zero value.
type newTx struct {
	Sender    *string `json:"sender" validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
	Amount    *int64  `json:"amount" validate:"required"`
}

type txResponse struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type mineResponse struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Transactions []database.Tx `json:"transactions"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previous_hash"`
}

type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required"`
}

type registerResponse struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

type replacedResponse struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"new_chain"`
}

type authoritativeResponse struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}

type balancesResponse struct {
	LatestBlock string           `json:"latest_block"`
	Pending     int              `json:"pending"`
	Balances    map[string]int64 `json:"balances"`
}
