package ledger

import "context"

// SeedDefaults populates an empty ledger with the stock program lineup so a
// fresh deployment renders something before the first admin edit. A ledger
// that already has programs is left alone.
func SeedDefaults(ctx context.Context, store Store) error {
	existing, err := store.ListPrograms(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	defaults := []struct {
		name     string
		category string
	}{
		{"开场瑜伽舞：流动的韵律", "瑜伽"},
		{"普拉提器械展示：核心力量", "普拉提"},
		{"空中瑜伽：云端漫步", "瑜伽"},
		{"双人伴侣瑜伽：信任的力量", "瑜伽"},
		{"禅修与呼吸：宁静之夜", "冥想"},
	}
	for _, d := range defaults {
		if _, err := store.CreateProgram(ctx, d.name, d.category); err != nil {
			return err
		}
	}
	return nil
}
