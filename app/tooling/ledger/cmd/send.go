package cmd

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "from", "f", "", "Address of the sender.")
	sendCmd.Flags().StringVarP(&recipient, "to", "r", "", "Address of the recipient.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	tx := database.NewTx(sender, recipient, amount)

	var resp struct {
		Message string `json:"message"`
		Index   uint64 `json:"index"`
	}
	if err := send(cmd.Context(), "POST", "/transactions/new", tx, &resp); err != nil {
		return err
	}

	pterm.Success.Println(resp.Message)

	return nil
}
