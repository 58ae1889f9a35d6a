package cmd

import (
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/consensus"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Display the chain held by the node",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) error {
	var pc consensus.PeerChain
	if err := send(cmd.Context(), "GET", "/chain", nil, &pc); err != nil {
		return err
	}

	if err := renderChain(pc.Chain); err != nil {
		return err
	}

	pterm.Info.Printfln("length: %d", pc.Length)

	return nil
}

// renderChain writes the blocks as a table.
func renderChain(chain []database.Block) error {
	data := pterm.TableData{
		{"Index", "Time", "Proof", "Trans", "Previous Hash", "Hash"},
	}

	for _, block := range chain {
		data = append(data, []string{
			fmt.Sprint(block.Index),
			time.Unix(int64(block.TimeStamp), 0).UTC().Format(time.RFC3339),
			fmt.Sprint(block.Proof),
			fmt.Sprint(len(block.Transactions)),
			short(block.PreviousHash),
			short(block.Hash()),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// short trims a hash for display.
func short(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + ".." + hash[len(hash)-4:]
}
