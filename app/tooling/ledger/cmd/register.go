package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <node> [node...]",
	Short: "Register peer nodes with the node",
	Args:  cobra.MinimumNArgs(1),
	RunE:  registerRun,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func registerRun(cmd *cobra.Command, args []string) error {
	req := struct {
		Nodes []string `json:"nodes"`
	}{
		Nodes: args,
	}

	var resp struct {
		Message    string   `json:"message"`
		TotalNodes []string `json:"total_nodes"`
	}
	if err := send(cmd.Context(), "POST", "/nodes/register", req, &resp); err != nil {
		return err
	}

	pterm.Success.Println(resp.Message)
	pterm.Info.Printfln("known nodes: %s", strings.Join(resp.TotalNodes, ", "))

	return nil
}
