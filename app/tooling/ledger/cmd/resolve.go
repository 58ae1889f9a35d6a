package cmd

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to resolve its chain against its peers",
	RunE:  resolveRun,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) error {
	var resp struct {
		Message  string           `json:"message"`
		NewChain []database.Block `json:"new_chain"`
		Chain    []database.Block `json:"chain"`
	}
	if err := send(cmd.Context(), "GET", "/nodes/resolve", nil, &resp); err != nil {
		return err
	}

	chain := resp.Chain
	if resp.NewChain != nil {
		chain = resp.NewChain
	}

	pterm.Success.Println(resp.Message)

	return renderChain(chain)
}
