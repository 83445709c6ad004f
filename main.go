/*
Copyright © 2026 ソニーレベル <C7kali3@gmail.com>

*/
package main

import "github.com/sony-level/npm-batch/cmd"

func main() {
	cmd.Execute()
}
