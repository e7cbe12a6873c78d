package cli

import (
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    int64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx := struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
			Amount    int64  `json:"amount"`
		}{
			Sender:    sender,
			Recipient: recipient,
			Amount:    amount,
		}

		resp, err := newRequest(cmd).SetBody(tx).Post("/transaction/new")
		return printResponse(cmd, resp, err)
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Identifier of the sender.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Identifier of the recipient.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "a", 0, "Amount to send.")
}
