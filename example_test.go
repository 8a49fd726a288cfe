package samepage_test

import (
	"fmt"

	"github.com/samepage-network/obsidian-samepage/leaf"
	"github.com/samepage-network/obsidian-samepage/render"
)

func Example() {
	page := "Some **bold** text\n- a [[page]]"
	notebookID := func() string { return "local-notebook" }

	doc, e := leaf.Parse(page, leaf.Options{NotebookID: notebookID})
	if e != nil {
		fmt.Println(e)
		return
	}
	fmt.Printf("%q\n", doc.Content)
	for _, a := range doc.Annotations {
		fmt.Println(a.Type(), a.Start, a.End)
	}

	text, e := render.Render(doc, render.Options{NotebookID: notebookID})
	if e != nil {
		fmt.Println(e)
		return
	}
	fmt.Println(text == page)

	// Output:
	// "Some bold text\na \x00\n"
	// block 0 15
	// bold 5 9
	// block 15 19
	// reference 17 18
	// true
}
