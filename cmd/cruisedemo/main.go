// Command cruisedemo exercises a cruise store from the command line.
package main

import "github.com/hpc/cruise/cmd"

func main() {
	cmd.Execute()
}
