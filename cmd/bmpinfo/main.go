package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/microbmp/microbmp"
)

func main() {
	verbose := flag.Bool("v", false, "print a field-by-field breakdown")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "USAGE: bmpinfo [-v] file.bmp [file.bmp ...]")
		os.Exit(2)
	}

	exitCode := 0
	for _, name := range flag.Args() {
		if err := inspect(name, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "bmpinfo: %s: %v\n", name, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func inspect(name string, verbose bool) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	img, err := microbmp.Decode(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", name, img.Describe())

	if verbose {
		fmt.Printf("  Width:    %v px\n", img.Width())
		fmt.Printf("  Height:   %v px\n", img.Height())
		fmt.Printf("  BitCount: %v bits\n", img.Depth())
		fmt.Printf("  Palette:  %v entries\n", len(img.Palette()))
		fmt.Printf("  FileSize: %v bytes\n", len(data))
	}
	return nil
}
