/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
)

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect match journals",
	Long: `Every played match is journaled as append-only JSONL under journal_dir:
a header record, one record per turn and an end record.

Use the subcommands 'show' and 'path' to inspect them.`,
}

// journalShowCmd lists the records of a journal.
var journalShowCmd = &cobra.Command{
	Use:   "show <match_id|file>",
	Short: "List the records of a journal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		if id, err := strconv.Atoi(args[0]); err == nil {
			path = persistence.NewJournalManager(viper.GetString("journal_dir")).Path(id)
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("Error finding journal: %v\n", err)
			os.Exit(1)
		}

		store, err := persistence.NewStore(path)
		if err != nil {
			fmt.Printf("Error opening journal: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.Load()
		if err != nil {
			fmt.Printf("Error reading journal: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Processed %d records.\n", len(records))
		for _, rec := range records {
			switch r := rec.(type) {
			case *persistence.HeaderRecord:
				fmt.Printf("%s header  match %d, ruleset %s, %d participants\n", r.ID, r.MatchID, r.Ruleset, len(r.Participants))
			case *persistence.TurnRecord:
				fmt.Printf("%s turn %-3d %s, %d orders, %d entries\n", r.ID, r.Turn, r.TurnType, len(r.Orders), len(r.Entries))
			case *persistence.EndRecord:
				fmt.Printf("%s end     %s, winners %d\n", r.ID, r.Status, r.Winners)
			}
		}
	},
}

// journalPathCmd prints where a match's journal lives.
var journalPathCmd = &cobra.Command{
	Use:   "path <match_id>",
	Short: "Print the journal file of a match",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Error: match id must be a number: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(persistence.NewJournalManager(viper.GetString("journal_dir")).Path(id))
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalPathCmd)
}
