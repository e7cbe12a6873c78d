package cli

import (
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newRequest(cmd).Get("/chain")
		return printResponse(cmd, resp, err)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined.",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newRequest(cmd).Get("/transactions/pending")
		return printResponse(cmd, resp, err)
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a new block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newRequest(cmd).Get("/mine")
		return printResponse(cmd, resp, err)
	},
}
