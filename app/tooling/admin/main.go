// This program performs administrative tasks for a node: it creates genesis
// files and inspects the chain a node has stored.
package main

import (
	"fmt"
	"os"

	"github.com/libertyswede/nxtnode/app/tooling/admin/commands"
	"github.com/libertyswede/nxtnode/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger. It writes to stderr so command
	// output stays clean.
	log, err := logger.New("ADMIN", "stderr")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := commands.Execute(build, log, os.Stdout); err != nil {
		log.Errorw("admin", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}
