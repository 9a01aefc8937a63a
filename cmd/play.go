/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/persistence"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/script"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/session"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <script>",
	Short: "Run a match script and print its transcript",
	Long: `Parses a match script, runs every turn through the engine, journals the
match under journal_dir and prints the transcript as seen from --pov.

Script lines look like:
	match 7 ruleset warlocks
	participant 1 "Alice" team 1
	turn 1
	1: left S right F target right 2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		povFlag, _ := cmd.Flags().GetString("pov")
		noJournal, _ := cmd.Flags().GetBool("no_journal")
		dumpOrders, _ := cmd.Flags().GetBool("dump_orders")

		pov, err := parsePOV(povFlag)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		src, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Printf("Error reading script: %v\n", err)
			os.Exit(1)
		}
		sc, err := script.Parse(args[0], string(src))
		if err != nil {
			fmt.Printf("Error parsing script: %v\n", err)
			os.Exit(1)
		}

		if dumpOrders {
			if err := dumpScriptOrders(sc); err != nil {
				fmt.Printf("Error exporting orders: %v\n", err)
				os.Exit(1)
			}
			return
		}

		ruleset := sc.Header.Ruleset
		if ruleset == "" {
			ruleset = viper.GetString("ruleset")
		}

		var store session.Store
		if !noJournal {
			manager := persistence.NewJournalManager(viper.GetString("journal_dir"))
			js, err := manager.Create(sc.Header.MatchID)
			if err != nil {
				fmt.Printf("Error creating journal: %v\n", err)
				os.Exit(1)
			}
			store = js
		}

		ctx := context.Background()
		s, err := session.New(ctx, session.Config{
			MatchID:      sc.Header.MatchID,
			Ruleset:      ruleset,
			DataDirs:     dataDirs(),
			Participants: sc.Specs(),
			Logger:       newLogger(),
		}, store)
		if err != nil {
			if store != nil {
				_ = store.Close()
			}
			fmt.Printf("Failed to start match: %v\n", err)
			os.Exit(1)
		}
		if err := runScript(ctx, s, sc); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		transcript{m: s.Match(), catalog: s.Engine().Catalog()}.render(os.Stdout, pov)
		if !noJournal {
			fmt.Println(infoStyle.Render("journal: " + persistence.NewJournalManager(viper.GetString("journal_dir")).Path(sc.Header.MatchID)))
		}
	},
}

// runScript submits every scripted turn and closes the session whatever
// the outcome. Turns after the end of the match are ignored.
func runScript(ctx context.Context, s *session.Session, sc *script.Script) (err error) {
	defer func() {
		if cerr := s.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing journal: %w", cerr)
		}
	}()

	for _, turn := range sc.Turns {
		if s.Match().Status() != match.StatusOngoing {
			fmt.Println(infoStyle.Render(fmt.Sprintf("match over, ignoring turn %d and later", turn.Number)))
			return nil
		}
		if turn.Number != s.Match().Turn {
			return fmt.Errorf("script turn %d but the match is at turn %d", turn.Number, s.Match().Turn)
		}
		orders, err := turn.Orders()
		if err != nil {
			return err
		}
		if _, err := s.Submit(ctx, orders); err != nil {
			return fmt.Errorf("processing turn %d: %w", turn.Number, err)
		}
	}
	return nil
}

// dumpScriptOrders writes the orders of every turn as YAML.
func dumpScriptOrders(sc *script.Script) error {
	out := map[int]map[int]*match.Orders{}
	for _, turn := range sc.Turns {
		orders, err := turn.Orders()
		if err != nil {
			return err
		}
		out[turn.Number] = orders
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("pov", "global", "point of view: global, public or a participant id")
	playCmd.Flags().Bool("no_journal", false, "do not write a journal")
	playCmd.Flags().Bool("dump_orders", false, "print the parsed orders as YAML instead of playing")
}
