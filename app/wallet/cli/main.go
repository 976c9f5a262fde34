// Program cli is a small wallet for holding keys and sending payments
// through a node's public API.
package main

import "github.com/libertyswede/nxtnode/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
