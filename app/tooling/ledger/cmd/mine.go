package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to forge a new block",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	spinner, err := pterm.DefaultSpinner.Start("mining")
	if err != nil {
		return err
	}

	var resp struct {
		Message      string        `json:"message"`
		Index        uint64        `json:"index"`
		Transactions []database.Tx `json:"transactions"`
		Proof        uint64        `json:"proof"`
		PreviousHash string        `json:"previous_hash"`
	}

	if err := send(cmd.Context(), "GET", "/mine", nil, &resp); err != nil {
		spinner.Fail(err)
		return err
	}

	spinner.Success(fmt.Sprintf("%s: index[%d] proof[%d]", resp.Message, resp.Index, resp.Proof))

	data := pterm.TableData{
		{"Sender", "Recipient", "Amount"},
	}
	for _, tx := range resp.Transactions {
		data = append(data, []string{tx.Sender, tx.Recipient, fmt.Sprint(tx.Amount)})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
