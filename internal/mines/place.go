package mines

import "log/slog"

// placeMines lays out the mines for a fresh game, keeping start and as many of
// its neighbours as the mine count allows out of the candidate pool.
func (b *Board) placeMines(start int) {
	size, mineCount := b.config.Size(), b.config.MineCount

	excluded := make([]bool, size)
	pool := size
	for _, i := range append([]int{start}, b.Siblings(start)...) {
		/*
		 * Only skip a cell while there are still enough other
		 * candidates left to hold every mine.
		 */
		if pool-1 >= mineCount {
			excluded[i] = true
			pool--
		}
	}

	candidates := make([]int, 0, pool)
	for i := range size {
		if !excluded[i] {
			candidates = append(candidates, i)
		}
	}

	b.rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, i := range candidates[:mineCount] {
		b.cells[i].Mine = true
		b.mines = append(b.mines, i)
	}

	b.logger.Debug("mines placed",
		slog.Int("start", start),
		slog.Int("mines", mineCount),
		slog.Int("excluded", size-pool),
	)
}
