// This program performs administrative tasks against a ledger node.
package main

import "github.com/ardanlabs/ledger/app/tooling/admin/cli"

func main() {
	cli.Execute()
}
