/*
Copyright © 2026 BioLogIn001
*/
package main

import "github.com/BioLogIn001/spellweavers-engine-sub001/cmd"

func main() {
	cmd.Execute()
}
