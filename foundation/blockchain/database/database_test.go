package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Canonical(t *testing.T) {
	type table struct {
		name  string
		block database.Block
		data  string
		hash  string
	}

	tt := []table{
		{
			name:  "genesis",
			block: database.GenesisBlock(genesis.Default()),
			data:  `{"index":1,"timestamp":1767225600,"transactions":[],"proof":100,"previous_hash":"0x0000000000000000000000000000000000000000000000000000000000000000"}`,
			hash:  "0x1a117551d71155fee874d0301377ba22d7e2b2633da9f707167a6d078f516619",
		},
		{
			name: "reward",
			block: database.Block{
				Index:        2,
				TimeStamp:    5,
				Transactions: []database.Tx{database.NewTx("0", "miner", 1)},
				Proof:        35293,
				PreviousHash: "0xabc",
			},
			data: `{"index":2,"timestamp":5,"transactions":[{"sender":"0","recipient":"miner","amount":1}],"proof":35293,"previous_hash":"0xabc"}`,
			hash: "0x28ee7375b6a5e524aed51f851c898b3c4c78b10a1d83ac8de134adc7a63c73e7",
		},
	}

	t.Log("Given the need to encode and hash blocks the same way every time.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s block.", testID, tst.name)
				{
					data, err := tst.block.Canonical()
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to encode the block: %v", failed, testID, err)
					}

					if string(data) != tst.data {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, data)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.data)
						t.Fatalf("\t%s\tTest %d:\tShould get the canonical encoding.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the canonical encoding.", success, testID)

					wire, err := json.Marshal(tst.block)
					if err != nil || string(wire) != tst.data {
						t.Fatalf("\t%s\tTest %d:\tShould use the canonical encoding on the wire: %s", failed, testID, wire)
					}
					t.Logf("\t%s\tTest %d:\tShould use the canonical encoding on the wire.", success, testID)

					if hash := tst.block.Hash(); hash != tst.hash {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, hash)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
						t.Fatalf("\t%s\tTest %d:\tShould get the expected hash.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected hash.", success, testID)

					var decoded database.Block
					if err := json.Unmarshal(wire, &decoded); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to decode the block: %v", failed, testID, err)
					}

					if decoded.Hash() != tst.hash {
						t.Fatalf("\t%s\tTest %d:\tShould get the same hash after a round trip.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same hash after a round trip.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_HashIndependentOfStorage(t *testing.T) {
	trans := []database.Tx{
		database.NewTx("a", "b", 10),
		database.NewTx("b", "c", -3),
	}

	now := time.Unix(1000, 0)
	b1 := database.NewBlock(2, now, trans, 7, signature.ZeroHash)
	b2 := database.NewBlock(2, now, append([]database.Tx{}, trans...), 7, signature.ZeroHash)

	if b1.Hash() != b2.Hash() {
		t.Fatalf("Should get the same hash for blocks with identical fields.")
	}

	trans[0].Amount = 99
	if b1.Hash() != b2.Hash() {
		t.Fatalf("Should not be affected by changes to the source transactions.")
	}

	if b1.Hash() != b1.Hash() {
		t.Fatalf("Should get the same hash on every call.")
	}
}

func Test_InvalidUTF8(t *testing.T) {
	t.Log("Given the need to keep stored blocks identical to what is hashed.")
	{
		tx1 := database.NewTx("\xff", "b", 1)
		tx2 := database.NewTx("\xfe", "b", 1)

		if tx1.Sender != "\uFFFD" || tx1 != tx2 {
			t.Fatalf("\t%s\tShould replace invalid bytes in the addresses: got %q and %q.", failed, tx1.Sender, tx2.Sender)
		}
		t.Logf("\t%s\tShould replace invalid bytes in the addresses.", success)

		now := time.Unix(1000, 0)
		raw := []database.Tx{{Sender: "a\xffb", Recipient: "c", Amount: 1}}
		b := database.NewBlock(2, now, raw, 7, signature.ZeroHash)

		if got := b.Trans()[0].Sender; got != "a\uFFFDb" {
			t.Fatalf("\t%s\tShould store transactions in their canonical form: got %q.", failed, got)
		}
		t.Logf("\t%s\tShould store transactions in their canonical form.", success)

		data, err := b.Canonical()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to encode the block: %s", failed, err)
		}

		var decoded database.Block
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("\t%s\tShould be able to decode the block: %s", failed, err)
		}

		if decoded.Trans()[0] != b.Trans()[0] || decoded.Hash() != b.Hash() {
			t.Fatalf("\t%s\tShould decode to the same transactions and hash.", failed)
		}
		t.Logf("\t%s\tShould decode to the same transactions and hash.", success)

		other := database.NewBlock(2, now, []database.Tx{database.NewTx("a", "c", 1)}, 7, signature.ZeroHash)
		if other.Hash() == b.Hash() {
			t.Fatalf("\t%s\tShould hash blocks with different transactions differently.", failed)
		}
		t.Logf("\t%s\tShould hash blocks with different transactions differently.", success)
	}
}

func Test_ValidateChain(t *testing.T) {
	chain := mineChain(t, 4)

	type table struct {
		name   string
		chain  []database.Block
		failAt int
	}

	tampered := database.CopyChain(chain)
	tampered[3].PreviousHash = signature.ZeroHash

	badProof := database.CopyChain(chain)
	badProof[2].Proof++

	changedTx := database.CopyChain(chain)
	changedTx[1].Transactions[0].Amount = 1000

	tt := []table{
		{name: "empty", chain: nil},
		{name: "genesis", chain: chain[:1]},
		{name: "valid", chain: chain},
		{name: "tampered-hash", chain: tampered, failAt: 4},
		{name: "bad-proof", chain: badProof, failAt: 3},
		{name: "changed-tx", chain: changedTx, failAt: 3},
	}

	t.Log("Given the need to validate a chain of blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen validating the %s chain.", testID, tst.name)
				{
					err := database.ValidateChain(tst.chain, nil)

					switch tst.failAt {
					case 0:
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be a valid chain: %v", failed, testID, err)
						}
						if !database.IsValidChain(tst.chain) {
							t.Fatalf("\t%s\tTest %d:\tShould report the chain as valid.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould be a valid chain.", success, testID)

					default:
						if !errors.Is(err, database.ErrInvalidChain) {
							t.Fatalf("\t%s\tTest %d:\tShould be an invalid chain: %v", failed, testID, err)
						}
						if database.IsValidChain(tst.chain) {
							t.Fatalf("\t%s\tTest %d:\tShould report the chain as invalid.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould be an invalid chain: %v", success, testID, err)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ValidatePair(t *testing.T) {
	gen := database.GenesisBlock(genesis.Default())

	proof, err := pow.Mine(context.Background(), gen.Proof, nil)
	if err != nil {
		t.Fatalf("Should be able to mine a proof: %s", err)
	}

	good := database.NewBlock(2, time.Now(), nil, proof, gen.Hash())
	if !database.IsValidChain([]database.Block{gen, good}) {
		t.Fatalf("Should accept a block linked to genesis with a valid proof.")
	}

	wrongHash := database.NewBlock(2, time.Now(), nil, proof, signature.ZeroHash)
	if database.IsValidChain([]database.Block{gen, wrongHash}) {
		t.Fatalf("Should reject a block not linked to genesis.")
	}

	wrongProof := database.NewBlock(2, time.Now(), nil, proof+1, gen.Hash())
	if database.IsValidChain([]database.Block{gen, wrongProof}) {
		t.Fatalf("Should reject a block with an invalid proof.")
	}
}

// =============================================================================

// mineChain builds a valid chain with the specified number of blocks.
func mineChain(t *testing.T, blocks int) []database.Block {
	t.Helper()

	chain := []database.Block{database.GenesisBlock(genesis.Default())}
	for len(chain) < blocks {
		prev := chain[len(chain)-1]

		proof, err := pow.Mine(context.Background(), prev.Proof, nil)
		if err != nil {
			t.Fatalf("Should be able to mine a proof: %s", err)
		}

		trans := []database.Tx{database.NewTx("0", "miner", 1)}
		chain = append(chain, database.NewBlock(prev.Index+1, time.Now(), trans, proof, prev.Hash()))
	}

	return chain
}
