/*
Copyright © 2026 BioLogIn001
*/
package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"slices"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/match"
	"github.com/BioLogIn001/spellweavers-engine-sub001/internal/session"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play seeded random matches twice each and check determinism",
	Long: `Plays N matches with random gestures. Every match is played twice from
the same seed and both logs must be identical.`,
	Run: func(cmd *cobra.Command, args []string) {
		n, _ := cmd.Flags().GetInt("matches")
		players, _ := cmd.Flags().GetInt("participants")
		maxTurns, _ := cmd.Flags().GetInt("max_turns")
		seed, _ := cmd.Flags().GetInt64("seed")

		specs := make([]match.ParticipantSpec, 0, players)
		for i := 1; i <= players; i++ {
			specs = append(specs, match.ParticipantSpec{ID: i, Name: fmt.Sprintf("Warlock %d", i), Team: i})
		}

		ctx := context.Background()
		logger := newLogger()
		play := func(id int) (*session.Session, error) {
			s, err := session.New(ctx, session.Config{
				MatchID:      id,
				Ruleset:      viper.GetString("ruleset"),
				DataDirs:     dataDirs(),
				Participants: specs,
				Logger:       logger,
			}, nil)
			if err != nil {
				return nil, err
			}
			rng := rand.New(rand.NewSource(seed + int64(id)))
			return s, s.Autoplay(ctx, rng, maxTurns)
		}

		outcomes := map[string]int{}
		var diverged []int
		bar := progressbar.Default(int64(n), "Simulating")
		for id := 1; id <= n; id++ {
			a, err := play(id)
			if err != nil {
				fmt.Printf("\nError in match %d: %v\n", id, err)
				os.Exit(1)
			}
			b, err := play(id)
			if err != nil {
				fmt.Printf("\nError in match %d: %v\n", id, err)
				os.Exit(1)
			}
			if !slices.Equal(a.Match().Entries(), b.Match().Entries()) {
				diverged = append(diverged, id)
			}

			switch {
			case a.Match().Status() == match.StatusCancelled:
				outcomes["unfinished"]++
			case a.Match().Winners == 0:
				outcomes["draw"]++
			default:
				outcomes[fmt.Sprintf("team %d", a.Match().Winners)]++
			}
			_ = bar.Add(1)
		}
		fmt.Println()

		for _, k := range sortedKeys(outcomes) {
			fmt.Println(infoStyle.Render(fmt.Sprintf("%-12s %d", k, outcomes[k])))
		}
		if len(diverged) > 0 {
			fmt.Printf("Non-deterministic matches: %v\n", diverged)
			os.Exit(1)
		}
		fmt.Println(resultStyle.Render(fmt.Sprintf("All %d matches replayed identically.", n)))
	},
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntP("matches", "n", 100, "number of matches to simulate")
	simulateCmd.Flags().Int("participants", 2, "participants per match, each on their own team")
	simulateCmd.Flags().Int("max_turns", 60, "turns before an unfinished match is cancelled")
	simulateCmd.Flags().Int64("seed", 1, "base seed for the random orders")
}
