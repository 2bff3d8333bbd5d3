package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/modkeeper/internal/engine"
)

// listAll is the list keyword covering every mod, cached or not.
const listAll = "all"

var listCmd = &cobra.Command{
	Use:   "list [category...]",
	Short: "List mods by state",
	Long: `List the ids of mods in any of the given categories.

Categories: enabled, disabled, cached, uncached, managed, unmanaged.
"all" lists every known mod. With no argument, enabled mods are listed.`,
	ValidArgs: append(categoryKeywords(), listAll),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := parseListArgs(args)
		if err != nil {
			return err
		}
		return listMods(cmd, filters)
	},
}

// parseListArgs turns list arguments into categories. "all" expands to the
// union of enabled, disabled, cached and uncached.
func parseListArgs(args []string) ([]engine.Category, error) {
	if len(args) == 0 {
		return []engine.Category{engine.CategoryEnabled}, nil
	}

	names := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == listAll {
			for _, c := range []engine.Category{
				engine.CategoryEnabled,
				engine.CategoryDisabled,
				engine.CategoryCached,
				engine.CategoryUncached,
			} {
				names = append(names, c.String())
			}
			continue
		}
		names = append(names, arg)
	}
	return engine.ParseCategories(names)
}

func categoryKeywords() []string {
	names := make([]string, len(engine.Categories))
	for i, c := range engine.Categories {
		names[i] = c.String()
	}
	return names
}
