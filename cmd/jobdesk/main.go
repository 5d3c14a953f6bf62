// Command jobdesk is the command-line front end of the jobdesk record store.
package main

import "github.com/mesh-intelligence/jobdesk/internal/cli"

func main() {
	cli.Execute()
}
