// Package cli contains the admin commands for talking to a ledger node.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd is the base command for the admin tool.
var RootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administer a ledger node",
	Long:  `admin talks to the public api of a ledger node to mine, submit transactions and manage peers.`,
}

func init() {
	RootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8080", "Url of the node.")
	RootCmd.PersistentFlags().Duration("timeout", time.Minute, "How long to wait for the node to respond.")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "binding flags:", err)
	}

	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true

	viper.SetEnvPrefix("admin")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	RootCmd.AddCommand(chainCmd)
	RootCmd.AddCommand(mineCmd)
	RootCmd.AddCommand(sendCmd)
	RootCmd.AddCommand(pendingCmd)
	RootCmd.AddCommand(registerCmd)
	RootCmd.AddCommand(nodesCmd)
	RootCmd.AddCommand(resolveCmd)
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

// =============================================================================

// newRequest constructs a request against the configured node.
func newRequest(cmd *cobra.Command) *resty.Request {
	client := resty.New().
		SetBaseURL(viper.GetString("url")).
		SetTimeout(viper.GetDuration("timeout")).
		SetHeader("Accept", "application/json")

	return client.R().SetContext(cmd.Context())
}

// printResponse writes the response body of a successful call to the command output.
// A failed call is returned as an error with the message from the node.
func printResponse(cmd *cobra.Command, resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if resp.IsError() {
		var er errs.Response
		if err := json.Unmarshal(resp.Body(), &er); err != nil || er.Error == "" {
			return fmt.Errorf("node responded with status %d", resp.StatusCode())
		}
		if len(er.Fields) > 0 {
			return fmt.Errorf("%s: %v", er.Error, er.Fields)
		}
		return fmt.Errorf("%s", er.Error)
	}

	var out any
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
