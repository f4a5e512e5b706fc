package mines

// Operate applies action to the cell at index and reports whether the board
// changed. Invalid moves (out of range, finished game, acting on an open
// cell) are silently ignored.
//
// With allowAutoChord an open or mark on an already open cell falls through
// to [OpenAround].
func (b *Board) Operate(index int, action Action, allowAutoChord bool) bool {
	if b.state.Over() || !b.InBounds(index) {
		return false
	}

	if action == OpenAround {
		return b.openAround(index)
	}
	if action != Open && action != Mark {
		return false
	}

	changed := false
	if b.state == Ready {
		b.placeMines(index)
		b.timer = timer{duration: b.timer.duration, start: b.now()}
		b.setState(Playing)
		changed = true
	}

	cell := &b.cells[index]
	if !cell.Open {
		if action == Mark || cell.Mark {
			b.setMark(index, !cell.Mark)
		} else {
			b.floodOpen(index)
		}
		return true
	}

	if allowAutoChord {
		return b.openAround(index) || changed
	}
	return changed
}

// OperateAt is [Board.Operate] addressed by position.
func (b *Board) OperateAt(p Position, action Action, allowAutoChord bool) bool {
	if !b.ValidatePosition(p) {
		return false
	}
	return b.Operate(b.Index(p), action, allowAutoChord)
}

// openAround chords an open cell: when the marks around it account for all
// of its mines, every other closed neighbour is opened. Anything else is left
// alone.
func (b *Board) openAround(index int) bool {
	if b.state != Playing || !b.cells[index].Open {
		return false
	}

	siblings := b.Siblings(index)
	marked := 0
	closed := make([]int, 0, len(siblings))
	for _, j := range siblings {
		if b.cells[j].Mark {
			marked++
		} else if !b.cells[j].Open {
			closed = append(closed, j)
		}
	}
	if marked != b.adjacentMines(index) {
		return false
	}

	changed := false
	for _, j := range closed {
		if b.state != Playing {
			break
		}
		// an earlier cascade in this loop may already have opened j
		if b.cells[j].Open {
			continue
		}
		b.floodOpen(j)
		changed = true
	}
	return changed
}

// floodOpen opens index and cascades through zero-count neighbours. It walks
// an explicit stack so its depth does not grow with the board.
func (b *Board) floodOpen(index int) {
	stack := []int{index}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := &b.cells[i]
		if cell.Open || cell.Mark {
			continue
		}
		cell.Open = true
		b.adjacentMines(i)

		if cell.Mine {
			cell.Boom = true
			b.gameOver(false)
			return
		}

		b.remaining--
		if b.remaining == 0 {
			b.gameOver(true)
			return
		}

		if cell.adjacent == 0 {
			for _, j := range b.Siblings(i) {
				if !b.cells[j].Open && !b.cells[j].Mark {
					stack = append(stack, j)
				}
			}
		}
	}
}

func (b *Board) gameOver(won bool) {
	b.timer.stop(b.now())

	if !won {
		/*
		 * Show the player where the mines were and which of their
		 * flags were placed; mine and mark flags are left untouched.
		 */
		for _, i := range b.mines {
			b.cells[i].Open = true
		}
		for i := range b.marks {
			b.cells[i].Open = true
		}
		b.setState(Lost)
		return
	}

	/*
	 * Flag every mine and open every safe cell. Mines are not
	 * opened: a won board shows flags, not bombs.
	 */
	clear(b.marks)
	for i := range b.cells {
		if b.cells[i].Mine {
			b.setMark(i, true)
		} else {
			b.cells[i].Mark = false
			b.cells[i].Open = true
		}
	}
	b.setState(Won)
}
