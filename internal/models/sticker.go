package models

// StickerCatalog is the fixed set of collectible reward stickers
var StickerCatalog = []string{
	"🦖", "🦄", "🚀", "🐱‍🚀", "🦁", "🦉", "🦋", "🐳",
	"🐲", "🚁", "🍔", "🍦", "💎", "🎮", "🛸", "🌋",
}

// StickerForTable returns the reward sticker for a table. The mapping is
// deterministic so the same table always offers the same sticker.
func StickerForTable(table int) string {
	if table < 0 {
		table = -table
	}
	return StickerCatalog[table%len(StickerCatalog)]
}
