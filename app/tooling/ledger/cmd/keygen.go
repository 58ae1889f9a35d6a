package cmd

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var keyPath string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a private key for a node identity",
	RunE:  keygenRun,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keyPath, "key", "k", "node.ecdsa", "Path to write the private key.")
}

func keygenRun(cmd *cobra.Command, args []string) error {
	address, err := identity.Generate(keyPath)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("key written to %s", keyPath)
	pterm.Info.Printfln("address: %s", address)

	return nil
}
