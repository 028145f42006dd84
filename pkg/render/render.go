// Package render turns a harvested collection into a markdown document and
// writes it to its destination.
package render

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/awesome-lists/pkg/harvest"
)

// Render formats items as a markdown list headed by the item count.
// The same input always yields byte-identical output.
func Render(items []harvest.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# The %d Awesome List  \n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- [%s](%s)\n\t- %s\n", item.Name, item.URL, item.Description)
	}
	return b.String()
}
