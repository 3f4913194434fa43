package buffer

// fenwick is a binary indexed tree over per-block counts. It answers prefix
// sums and "which block holds the n-th unit" in O(log n).
type fenwick struct {
	tree []int // 1-based
}

func newFenwick(values []int) *fenwick {
	f := &fenwick{tree: make([]int, len(values)+1)}
	for i, v := range values {
		f.tree[i+1] += v
		if j := (i + 1) + ((i + 1) & -(i + 1)); j < len(f.tree) {
			f.tree[j] += f.tree[i+1]
		}
	}
	return f
}

func (f *fenwick) len() int { return len(f.tree) - 1 }

// add adds delta to element i (0-based).
func (f *fenwick) add(i, delta int) {
	for i++; i < len(f.tree); i += i & -i {
		f.tree[i] += delta
	}
}

// prefix returns the sum of elements [0, i).
func (f *fenwick) prefix(i int) int {
	sum := 0
	for ; i > 0; i -= i & -i {
		sum += f.tree[i]
	}
	return sum
}

// find returns the index of the element containing unit target (0-based) and
// the remaining offset inside that element. If target is past the total, the
// returned index equals len().
func (f *fenwick) find(target int) (int, int) {
	pos := 0
	step := 1
	for step*2 <= f.len() {
		step *= 2
	}
	for ; step > 0; step /= 2 {
		if next := pos + step; next <= f.len() && f.tree[next] <= target {
			pos = next
			target -= f.tree[next]
		}
	}
	return pos, target
}
