package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/slowlang/ninecc/compiler/fault"
)

var (
	errorColorFG = pterm.FgRed
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoColorFG  = pterm.FgLightGreen
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

func printFault(file string, err error) {
	tag := "Compile Error"

	if f, ok := fault.As(err); ok {
		tag = fmt.Sprintf("%v: %v", file, f.Kind)
	}

	errorStyleBG.Print(tag)
	errorColorFG.Println(" " + err.Error())

	if f, ok := fault.As(err); ok && f.From != 0 {
		name, path, line := f.From.NameFileLine()
		errorColorFG.Println(fmt.Sprintf("  raised in %v (%v:%d)", name, path, line))
	}
}

func printInfo(tag, msg string) {
	infoStyleBG.Print(tag)
	infoColorFG.Println(" " + msg)
}
