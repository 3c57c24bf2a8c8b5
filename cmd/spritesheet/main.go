package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/pinewood/internal/assets"
)

func main() {
	out := flag.String("out", "sprites.png", "where to write the sheet")
	columns := flag.Int("columns", 4, "sprites per row")
	flag.Parse()

	fmt.Println("Pinewood Sprite Sheet Generator")
	fmt.Println("===============================")
	fmt.Println()

	recipes := assets.DefaultRecipes()
	library := assets.NewLibrary()
	barrier := assets.NewBarrier(len(recipes))
	barrier.OnProgress(func(loaded, total int) {
		fmt.Printf("  generated %d/%d\n", loaded, total)
	})

	if err := library.Load(context.Background(), recipes, barrier); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, s := range library.All() {
		fmt.Printf("  %-10s emissive=%v\n", s.Name, s.Emissive())
	}

	if err := assets.SavePNG(assets.Sheet(library.All(), *columns), *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! Wrote %s\n", *out)
}
