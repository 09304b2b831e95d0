// The main package for the visarchiver executable.
package main

import (
	"vistopia-archiver/cmd"
)

func main() {
	cmd.Execute()
}
