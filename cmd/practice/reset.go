package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and stickers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("This erases all progress and stickers. Type 'yes' to confirm: ")
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		if strings.TrimSpace(input) != "yes" {
			fmt.Println("Cancelled")
			return
		}

		e, err := openEnv()
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		defer e.Close()

		if err := e.progress.Clear(e.playerID); err != nil {
			fmt.Println("❌ Error clearing progress:", err)
			return
		}
		fmt.Println("✅ Progress cleared. Fresh start!")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
