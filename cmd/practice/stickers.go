package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mathadventure/internal/models"
)

var stickersCmd = &cobra.Command{
	Use:   "stickers",
	Short: "Show the sticker book",
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

		collected := 0
		fmt.Println("🎁 Sticker book")
		fmt.Println("---------------")
		for _, sticker := range models.StickerCatalog {
			if progress.HasSticker(sticker) {
				fmt.Printf("  %s", sticker)
				collected++
			} else {
				fmt.Print("  ·")
			}
		}
		fmt.Printf("\n\nCollected %d of %d. Score 10/10 on a table to earn its sticker!\n",
			collected, len(models.StickerCatalog))
	},
}

func init() {
	rootCmd.AddCommand(stickersCmd)
}
