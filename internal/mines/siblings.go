package mines

var siblingOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Siblings returns the in-bounds neighbours of index, row by row. The list is
// computed once per index and cached until the board is resized; callers must
// not modify it. An index off the board has no siblings.
func (b *Board) Siblings(index int) []int {
	if !b.InBounds(index) {
		return nil
	}
	if cached, ok := b.siblings[index]; ok {
		return cached
	}
	w, h := b.config.Width, b.config.Height
	p := b.Position(index)
	siblings := make([]int, 0, len(siblingOffsets))
	for _, d := range siblingOffsets {
		x, y := p.X+d[0], p.Y+d[1]
		if x >= 0 && x < w && y >= 0 && y < h {
			siblings = append(siblings, y*w+x)
		}
	}
	b.siblings[index] = siblings
	return siblings
}

// adjacentMines computes and caches the number of mines around index. The
// layout is frozen once placed, so the value never changes afterwards.
func (b *Board) adjacentMines(index int) int {
	cell := &b.cells[index]
	if cell.adjacent < 0 {
		var n int8
		for _, j := range b.Siblings(index) {
			if b.cells[j].Mine {
				n++
			}
		}
		cell.adjacent = n
	}
	return int(cell.adjacent)
}
