/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/session"
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <journal>",
	Short: "Rebuild a match from its journal and verify determinism",
	Long: `Reads a match journal, replays every recorded turn through a fresh engine
and checks that each turn produces exactly the journaled log.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		povFlag, _ := cmd.Flags().GetString("pov")
		pov, err := parsePOV(povFlag)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if _, err := os.Stat(args[0]); err != nil {
			fmt.Printf("Error finding journal: %v\n", err)
			os.Exit(1)
		}
		store, err := persistence.NewStore(args[0])
		if err != nil {
			fmt.Printf("Error opening journal: %v\n", err)
			os.Exit(1)
		}

		s, err := session.Rebuild(context.Background(), store, dataDirs(), newLogger())
		if err != nil {
			store.Close()
			fmt.Printf("Replay failed: %v\n", err)
			os.Exit(1)
		}
		defer s.Close()

		transcript{m: s.Match(), catalog: s.Engine().Catalog()}.render(os.Stdout, pov)
		fmt.Println(resultStyle.Render(fmt.Sprintf("Journal replayed deterministically, match %d at turn %d.", s.Match().ID, s.Match().Turn)))
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().String("pov", "global", "point of view: global, public or a participant id")
}
