package main

import (
	"fmt"

	// Packages
	version "github.com/mutablelogic/go-gemini/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *VersionCmd) Run(g *Globals) error {
	if g.Verbose {
		fmt.Printf("%s\n", version.JSON(execName()))
	} else {
		fmt.Println(execName(), version.Version())
	}
	return nil
}
