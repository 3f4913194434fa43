package highlighter

import (
	"context"
	"sort"

	"github.com/bethropolis/textcore/internal/types"
)

// span is a classified byte interval produced by a capture or a lexer token.
type span struct {
	start, end int
	typ        types.TokenType
	pattern    int
	seq        int
}

// segment is one piece of the final partition.
type segment struct {
	start, end int
	typ        types.TokenType
}

// beats reports whether a wins over b where both cover the same text: higher
// precedence first, then the narrower span, then the later capture.
func (a span) beats(b span) bool {
	if pa, pb := a.typ.Precedence(), b.typ.Precedence(); pa != pb {
		return pa > pb
	}
	if wa, wb := a.end-a.start, b.end-b.start; wa != wb {
		return wa < wb
	}
	if a.pattern != b.pattern {
		return a.pattern > b.pattern
	}
	return a.seq > b.seq
}

// ctxCheckEvery is how many loop iterations run between context checks.
const ctxCheckEvery = 1024

// partition splits [from, to) into contiguous segments. Every byte gets the
// type of the best span covering it; uncovered bytes become text. It stops
// with the context's error once ctx is done.
func partition(ctx context.Context, spans []span, from, to int) ([]segment, error) {
	if to <= from {
		return nil, nil
	}

	clipped := make([]span, 0, len(spans))
	bounds := []int{from, to}
	for _, s := range spans {
		if s.start < from {
			s.start = from
		}
		if s.end > to {
			s.end = to
		}
		if s.start >= s.end {
			continue
		}
		clipped = append(clipped, s)
		bounds = append(bounds, s.start, s.end)
	}
	sort.SliceStable(clipped, func(i, j int) bool { return clipped[i].start < clipped[j].start })
	sort.Ints(bounds)
	bounds = uniqueInts(bounds)

	var out []segment
	var active []int
	next := 0
	lastWinner := -2
	for i := 0; i+1 < len(bounds); i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		b, e := bounds[i], bounds[i+1]
		for next < len(clipped) && clipped[next].start <= b {
			active = append(active, next)
			next++
		}
		kept := active[:0]
		for _, idx := range active {
			if clipped[idx].end > b {
				kept = append(kept, idx)
			}
		}
		active = kept

		winner := -1
		for _, idx := range active {
			if winner < 0 || clipped[idx].beats(clipped[winner]) {
				winner = idx
			}
		}

		if winner == lastWinner && len(out) > 0 && out[len(out)-1].end == b {
			out[len(out)-1].end = e
			continue
		}
		typ := types.TokenText
		if winner >= 0 {
			typ = clipped[winner].typ
		}
		out = append(out, segment{start: b, end: e, typ: typ})
		lastWinner = winner
	}
	return out, nil
}

func uniqueInts(sorted []int) []int {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
