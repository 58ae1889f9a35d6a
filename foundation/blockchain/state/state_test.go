package state_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const minerAddr = "minerAddr"

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T, fetcher consensus.Fetcher) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		Address:    minerAddr,
		Host:       "localhost:8080",
		Genesis:    genesis.Default(),
		KnownPeers: peer.NewPeerSet(),
		Fetcher:    fetcher,
		EvHandler:  func(v string, args ...any) { t.Logf(v, args...) },
	})
	ifErrFailNow(t, err)

	return st
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	st := newState(t, nil)

	chain := st.RetrieveChain()
	if len(chain) != 1 {
		t.Fatalf("Should start with only the genesis block, got %d blocks.", len(chain))
	}

	gen := chain[0]
	if gen.Index != 1 || gen.Proof != genesis.DefaultProof || gen.PreviousHash != signature.ZeroHash {
		t.Fatalf("Should have the sentinel genesis block, got %+v", gen)
	}

	latest, err := st.LatestBlock()
	ifErrFailNow(t, err)

	if latest.Hash() != gen.Hash() {
		t.Fatalf("Should have the genesis block as the latest block.")
	}

	if _, err := state.New(state.Config{}); err == nil {
		t.Fatalf("Should not construct a state without an address.")
	}
}

func Test_RecordAndSeal(t *testing.T) {
	t.Log("Given the need to record transactions and seal them into a block.")
	{
		st := newState(t, nil)
		genesisHash := st.RetrieveChain()[0].Hash()

		trans := []database.Tx{
			database.NewTx("0", minerAddr, 1),
			database.NewTx("0", minerAddr, 1),
		}

		for _, tx := range trans {
			if index := st.RecordTransaction(tx); index != 2 {
				t.Fatalf("\t%s\tShould be told the transaction goes in block 2, got %d.", failed, index)
			}
		}
		t.Logf("\t%s\tShould be told the transaction goes in block 2.", success)

		if pending := st.RetrieveMempool(); len(pending) != 2 {
			t.Fatalf("\t%s\tShould have 2 pending transactions, got %d.", failed, len(pending))
		}
		t.Logf("\t%s\tShould have 2 pending transactions.", success)

		block := st.SealBlock(35293, "")

		if block.Index != 2 {
			t.Fatalf("\t%s\tShould seal block 2, got %d.", failed, block.Index)
		}
		t.Logf("\t%s\tShould seal block 2.", success)

		if block.PreviousHash != genesisHash {
			t.Fatalf("\t%s\tShould link the block to the genesis block.", failed)
		}
		t.Logf("\t%s\tShould link the block to the genesis block.", success)

		if len(block.Transactions) != len(trans) {
			t.Fatalf("\t%s\tShould have %d transactions, got %d.", failed, len(trans), len(block.Transactions))
		}
		for i, tx := range block.Transactions {
			if tx != trans[i] {
				t.Fatalf("\t%s\tShould keep the transactions in call order.", failed)
			}
		}
		t.Logf("\t%s\tShould keep the transactions in call order.", success)

		if pending := st.RetrieveMempool(); len(pending) != 0 {
			t.Fatalf("\t%s\tShould have an empty mempool, got %d.", failed, len(pending))
		}
		t.Logf("\t%s\tShould have an empty mempool.", success)

		chain := st.RetrieveChain()
		if len(chain) != 2 {
			t.Fatalf("\t%s\tShould have grown the chain by one, got %d.", failed, len(chain))
		}
		t.Logf("\t%s\tShould have grown the chain by one.", success)

		if !database.IsValidChain(chain) {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)

		explicit := st.SealBlock(0, "0xexplicit")
		if explicit.PreviousHash != "0xexplicit" || explicit.Index != 3 {
			t.Fatalf("\t%s\tShould use the provided previous hash.", failed)
		}
		t.Logf("\t%s\tShould use the provided previous hash.", success)
	}
}

func Test_MineNewBlock(t *testing.T) {
	t.Log("Given the need to mine new blocks.")
	{
		st := newState(t, nil)

		st.RecordTransaction(database.NewTx("alice", "bob", 5))

		block, _, err := st.MineNewBlock(context.Background())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine a block.", success)

		if block.Index != 2 || block.Proof != 35293 {
			t.Fatalf("\t%s\tShould mine block 2 with proof 35293, got %d %d.", failed, block.Index, block.Proof)
		}
		t.Logf("\t%s\tShould mine block 2 with proof 35293.", success)

		if len(block.Transactions) != 2 {
			t.Fatalf("\t%s\tShould have the pending and reward transactions, got %d.", failed, len(block.Transactions))
		}

		reward := block.Transactions[1]
		if reward.Sender != state.RewardSender || reward.Recipient != minerAddr || reward.Amount != genesis.DefaultMiningReward {
			t.Fatalf("\t%s\tShould have the reward transaction last, got %v.", failed, reward)
		}
		t.Logf("\t%s\tShould have the reward transaction last.", success)

		if _, _, err := st.MineNewBlock(context.Background()); err != nil {
			t.Fatalf("\t%s\tShould be able to mine another block: %v", failed, err)
		}

		chain := st.RetrieveChain()
		if len(chain) != 3 || !database.IsValidChain(chain) {
			t.Fatalf("\t%s\tShould have a valid chain of 3 blocks.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain of 3 blocks.", success)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, _, err := st.MineNewBlock(ctx); !errors.Is(err, state.ErrMiningCancelled) {
			t.Fatalf("\t%s\tShould get a cancelled error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould get a cancelled error.", success)

		if len(st.RetrieveChain()) != 3 {
			t.Fatalf("\t%s\tShould not change the chain when cancelled.", failed)
		}
		t.Logf("\t%s\tShould not change the chain when cancelled.", success)
	}
}

func Test_Resolve(t *testing.T) {
	remote := newState(t, nil)
	for i := 0; i < 2; i++ {
		_, _, err := remote.MineNewBlock(context.Background())
		ifErrFailNow(t, err)
	}

	fetcher := consensus.FetcherFunc(func(ctx context.Context, pr peer.Peer) (consensus.PeerChain, error) {
		switch pr.Host {
		case "peer1:5000":
			chain := remote.RetrieveChain()
			return consensus.PeerChain{Chain: chain, Length: len(chain)}, nil
		default:
			return consensus.PeerChain{}, consensus.ErrUnreachablePeer
		}
	})

	t.Log("Given the need to resolve conflicts with peers.")
	{
		st := newState(t, fetcher)

		adopted, chain, err := st.Resolve(context.Background())
		ifErrFailNow(t, err)

		if adopted || len(chain) != 1 {
			t.Fatalf("\t%s\tShould not adopt anything without peers.", failed)
		}
		t.Logf("\t%s\tShould not adopt anything without peers.", success)

		peers := st.RegisterPeers([]peer.Peer{peer.New("peer1:5000"), peer.New("down:5000"), peer.New("localhost:8080")})
		if len(peers) != 2 {
			t.Fatalf("\t%s\tShould register the peers except this node, got %d.", failed, len(peers))
		}
		t.Logf("\t%s\tShould register the peers except this node.", success)

		st.RecordTransaction(database.NewTx("alice", "bob", 5))

		adopted, chain, err = st.Resolve(context.Background())
		ifErrFailNow(t, err)

		if !adopted || len(chain) != 3 {
			t.Fatalf("\t%s\tShould adopt the 3 block peer chain, got %t %d.", failed, adopted, len(chain))
		}
		t.Logf("\t%s\tShould adopt the 3 block peer chain.", success)

		if len(st.RetrieveChain()) != 3 {
			t.Fatalf("\t%s\tShould have replaced the local chain.", failed)
		}
		t.Logf("\t%s\tShould have replaced the local chain.", success)

		if len(st.RetrieveMempool()) != 1 {
			t.Fatalf("\t%s\tShould keep the pending transactions.", failed)
		}
		t.Logf("\t%s\tShould keep the pending transactions.", success)

		adopted, _, err = st.Resolve(context.Background())
		ifErrFailNow(t, err)

		if adopted {
			t.Fatalf("\t%s\tShould not adopt a chain of equal length.", failed)
		}
		t.Logf("\t%s\tShould not adopt a chain of equal length.", success)

		block, _, err := st.MineNewBlock(context.Background())
		ifErrFailNow(t, err)

		if block.Index != 4 || !database.IsValidChain(st.RetrieveChain()) {
			t.Fatalf("\t%s\tShould be able to mine on top of the adopted chain.", failed)
		}
		t.Logf("\t%s\tShould be able to mine on top of the adopted chain.", success)
	}
}

func Test_ConcurrentSeal(t *testing.T) {
	const (
		writers = 10
		records = 50
	)

	st := newState(t, nil)

	var wg sync.WaitGroup
	wg.Add(writers * 2)

	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < records; j++ {
				st.RecordTransaction(database.NewTx("a", "b", int64(j)))
			}
		}()

		go func() {
			defer wg.Done()
			for j := 0; j < records/10; j++ {
				st.SealBlock(0, "")
			}
		}()
	}

	wg.Wait()
	st.SealBlock(0, "")

	chain := st.RetrieveChain()

	var total int
	for i, block := range chain {
		if block.Index != uint64(i+1) {
			t.Fatalf("Should have sequential block indexes, got %d at %d.", block.Index, i)
		}
		if i > 0 && block.PreviousHash != chain[i-1].Hash() {
			t.Fatalf("Should have every block linked to its predecessor.")
		}
		total += len(block.Transactions)
	}

	if total != writers*records {
		t.Fatalf("Should have every transaction in exactly one block, got %d.", total)
	}
}

func Test_Query(t *testing.T) {
	st := newState(t, nil)

	st.RecordTransaction(database.NewTx("alice", "bob", 5))
	if _, _, err := st.MineNewBlock(context.Background()); err != nil {
		t.Fatalf("Should be able to mine a block: %s", err)
	}

	st.RecordTransaction(database.NewTx(minerAddr, "carol", 1))
	st.SealBlock(0, "")

	if blocks := st.QueryBlocksByNumber(2, state.QueryLatest); len(blocks) != 2 || blocks[0].Index != 2 {
		t.Fatalf("Should get blocks 2 through the latest, got %d.", len(blocks))
	}

	if blocks := st.QueryBlocksByNumber(state.QueryLatest, state.QueryLatest); len(blocks) != 1 || blocks[0].Index != 3 {
		t.Fatalf("Should get only the latest block.")
	}

	if blocks := st.QueryBlocksByNumber(state.QueryLatest, 5); len(blocks) != 1 || blocks[0].Index != 3 {
		t.Fatalf("Should resolve latest to the tip when it is the lower bound.")
	}

	if blocks := st.QueryBlocksByNumber(state.QueryLatest, 2); len(blocks) != 0 {
		t.Fatalf("Should get no blocks when the tip is past the upper bound.")
	}

	if blocks := st.QueryBlocksByNumber(10, 20); len(blocks) != 0 {
		t.Fatalf("Should ignore blocks outside of the chain.")
	}

	if blocks := st.QueryBlocksByAddress("carol"); len(blocks) != 1 || blocks[0].Index != 3 {
		t.Fatalf("Should get the blocks for an address.")
	}

	if blocks := st.QueryBlocksByAddress(minerAddr); len(blocks) != 2 {
		t.Fatalf("Should get every block the miner appears in, got %d.", len(blocks))
	}

	if blocks := st.QueryBlocksByAddress(""); len(blocks) != 3 {
		t.Fatalf("Should get every block for an empty address.")
	}

	balances := st.QueryBalances()
	exp := map[string]int64{"alice": -5, "bob": 5, minerAddr: 0, "carol": 1}
	for address, value := range exp {
		if balances[address] != value {
			t.Fatalf("Should have a balance of %d for %s, got %d.", value, address, balances[address])
		}
	}
}
