package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mathadventure/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz history and learned tables",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := openEnv()
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		defer e.Close()

		progress, err := e.progress.Load(e.playerID)
		if err != nil {
			fmt.Println("❌ Error loading progress:", err)
			return
		}

		fmt.Println("📊 Statistics")
		fmt.Println("-------------")
		fmt.Printf("Learned multiplication tables: %v\n", progress.Multiplication)
		fmt.Printf("Learned division tables:       %v\n", progress.Division)

		if len(progress.QuizHistory) == 0 {
			fmt.Println("\nNo quizzes taken yet. Run 'practice play <table>' to start!")
			return
		}

		fmt.Println("\nQuiz history:")
		for _, stats := range progress.QuizHistory {
			mode := "x"
			if stats.Mode == models.ModeDivision {
				mode = ":"
			}
			fmt.Printf("  Table %2d (%s) | attempts: %2d | best: %2d/10 | average: %4.1f\n",
				stats.Table, mode, stats.Attempts, stats.BestScore, stats.AverageScore())
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
