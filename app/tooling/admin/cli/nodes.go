package cli

import (
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <node url>...",
	Short: "Register peer nodes with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		resp, err := newRequest(cmd).SetBody(nodes).Post("/nodes/register")
		return printResponse(cmd, resp, err)
	},
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Print the peer nodes known to the node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newRequest(cmd).Get("/nodes/list")
		return printResponse(cmd, resp, err)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to resolve conflicts with its peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newRequest(cmd).Get("/nodes/resolve")
		return printResponse(cmd, resp, err)
	},
}
