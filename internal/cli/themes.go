package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhaertel/inkboard/pkg/theme"
)

// themesCommand creates the themes command listing the built-in themes
// and their aliases.
func (c *CLI) themesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Built-in themes"))
			aliases := invertAliases(theme.Aliases())
			for _, name := range theme.Names() {
				t := theme.Get(name)
				desc := fmt.Sprintf("%s style, accent %s", t.Variant, t.Accent)
				if al := aliases[name]; len(al) > 0 {
					desc += StyleDim.Render("  (aka " + strings.Join(al, ", ") + ")")
				}
				printKeyValue(name, desc)
			}
			return nil
		},
	}
}

// invertAliases groups aliases under their canonical theme name.
func invertAliases(aliases map[string]string) map[string][]string {
	byName := make(map[string][]string)
	for alias, name := range aliases {
		byName[name] = append(byName[name], alias)
	}
	for _, al := range byName {
		sort.Strings(al)
	}
	return byName
}
