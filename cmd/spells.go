/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/ruleset"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/spell"
)

var spellsCmd = &cobra.Command{
	Use:   "spells",
	Short: "List the spell catalog of a ruleset",
	Long: `Prints every spell of the selected ruleset with its gesture patterns.
Lowercase letters mean both hands must show the gesture; '.' matches any
gesture.`,
	Run: func(cmd *cobra.Command, args []string) {
		rules, err := ruleset.Load(viper.GetString("ruleset"), dataDirs()...)
		if err != nil {
			fmt.Printf("Error loading ruleset: %v\n", err)
			os.Exit(1)
		}
		catalog := spell.NewCatalog(rules)

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
			Headers("ID", "Spell", "Gestures", "Priority", "Target")
		for _, d := range catalog.All() {
			t.Row(strconv.Itoa(d.ID), d.Name, strings.Join(d.Patterns, " / "), strconv.Itoa(d.Priority), string(d.Target))
		}

		fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d spells", rules.Name, len(catalog.All()))))
		fmt.Println(t.Render())
	},
}

func init() {
	rootCmd.AddCommand(spellsCmd)
}
