package pow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Mine(t *testing.T) {
	type table struct {
		name      string
		lastProof uint64
		proof     uint64
	}

	tt := []table{
		{name: "genesis", lastProof: 100, proof: 35293},
		{name: "second", lastProof: 35293, proof: 35089},
		{name: "zero", lastProof: 0, proof: 69732},
		{name: "seven", lastProof: 7, proof: 54822},
	}

	t.Log("Given the need to find the smallest valid proof.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen mining against last proof %d.", testID, tst.lastProof)
				{
					proof, err := pow.Mine(context.Background(), tst.lastProof, nil)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine a proof: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine a proof.", success, testID)

					if proof != tst.proof {
						t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, proof)
						t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.proof)
						t.Fatalf("\t%s\tTest %d:\tShould get back the expected proof.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the expected proof.", success, testID)

					if !pow.ValidProof(tst.lastProof, proof) {
						t.Fatalf("\t%s\tTest %d:\tShould have a proof that validates.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould have a proof that validates.", success, testID)

					for q := uint64(0); q < proof; q++ {
						if pow.ValidProof(tst.lastProof, q) {
							t.Fatalf("\t%s\tTest %d:\tShould not have a smaller valid proof: %d", failed, testID, q)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould not have a smaller valid proof.", success, testID)

					again, err := pow.Mine(context.Background(), tst.lastProof, nil)
					if err != nil || again != proof {
						t.Fatalf("\t%s\tTest %d:\tShould get the same proof on every run: %d %v", failed, testID, again, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same proof on every run.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ValidProof(t *testing.T) {
	if pow.ValidProof(100, 35292) {
		t.Fatalf("Should not accept a proof that does not solve the puzzle.")
	}

	if !pow.ValidProof(100, 35293) {
		t.Fatalf("Should accept a proof that solves the puzzle.")
	}
}

func Test_MineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events int
	ev := func(v string, args ...any) { events++ }

	_, err := pow.Mine(ctx, 100, ev)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Should get a cancelled error, got: %v", err)
	}

	if events == 0 {
		t.Fatalf("Should have received mining events.")
	}
}
