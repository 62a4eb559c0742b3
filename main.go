package main

import "github.com/meysamhadeli/codepack/cmd"

func main() {
	cmd.Execute()
}
