package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mathadventure/internal/models"
	"mathadventure/internal/quiz"
)

var playDivision bool

var playCmd = &cobra.Command{
	Use:   "play <table>",
	Short: "Run a ten-question quiz for one table",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		table, err := strconv.Atoi(args[0])
		if err != nil || table < 1 {
			fmt.Println("❌ Table must be a positive number")
			return
		}

		mode := models.ModeMultiplication
		if playDivision {
			mode = models.ModeDivision
		}

		e, err := openEnv()
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		defer e.Close()

		generator := quiz.NewGenerator(nil)
		questions, err := generator.Generate(table, mode)
		if err != nil {
			fmt.Println("❌", err)
			return
		}

		result := runQuiz(questions)

		fmt.Println("\n========================================")
		fmt.Printf("Score: %d/%d\n", result.Score, result.Total)
		for _, q := range result.WrongAnswers {
			fmt.Printf("  Review: %s\n", q.Solution())
		}

		outcome, err := e.reports.ReportResult(e.playerID, table, mode, result)
		if err != nil {
			fmt.Println("❌ Could not save progress:", err)
			return
		}

		if outcome.TableLearned {
			fmt.Printf("🎉 Table %d is now marked as learned!\n", table)
		}
		if outcome.StickerOffer != "" {
			fmt.Printf("🎁 You earned a sticker: %s\n", outcome.StickerOffer)
			if _, err := e.reports.ClaimSticker(e.playerID, table); err != nil {
				fmt.Println("❌ Could not save sticker:", err)
			}
		}
	},
}

// runQuiz asks each question on stdin and scores the answers
func runQuiz(questions []models.Question) models.QuizResult {
	reader := bufio.NewReader(os.Stdin)
	result := models.QuizResult{Total: len(questions)}

	for i, q := range questions {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(questions), q.Prompt())
		for j, option := range q.Options {
			fmt.Printf("  %d) %d\n", j+1, option)
		}

		selected := readOption(reader, len(q.Options))
		if q.Options[selected-1] == q.Answer {
			result.Score++
			fmt.Println("✅ Correct!")
		} else {
			result.WrongAnswers = append(result.WrongAnswers, q)
			fmt.Printf("❌ Not quite. %s\n", q.Solution())
		}
	}
	return result
}

func readOption(reader *bufio.Reader, count int) int {
	for {
		fmt.Print("Your answer: ")
		input, _ := reader.ReadString('\n')
		selected, err := strconv.Atoi(strings.TrimSpace(input))
		if err == nil && selected >= 1 && selected <= count {
			return selected
		}
		fmt.Printf("Please enter a number between 1 and %d\n", count)
	}
}

func init() {
	playCmd.Flags().BoolVarP(&playDivision, "division", "d", false, "Practice division instead of multiplication")
	rootCmd.AddCommand(playCmd)
}
