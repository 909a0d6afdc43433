//go:build ignore

// Prints what ctrl+v would attach from the current clipboard.
package main

import (
	"fmt"

	"github.com/zhubert/chatkit/internal/clipboard"
)

func main() {
	fmt.Println("Reading clipboard image...")
	img, err := clipboard.ReadImage()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if img == nil {
		fmt.Println("No image in clipboard")
		return
	}
	if err := img.Validate(); err != nil {
		fmt.Printf("Image rejected: %v\n", err)
		return
	}
	ref := img.MediaReference()
	fmt.Printf("Would attach %s: %s %dx%d, %d KB\n", ref.ID, ref.MediaType, img.Width, img.Height, img.SizeKB())
}
