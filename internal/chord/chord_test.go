package chord

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestCompute_Example(t *testing.T) {
	chords := New().Compute([][]float64{{0, 3}, {1, 0}})

	k := (Tau - 2*DefaultPadAngle) / 4

	if len(chords.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(chords.Groups))
	}
	a, b := chords.Groups[0], chords.Groups[1]
	if !approx(a.StartAngle, 0) || !approx(a.EndAngle, 3*k) || a.Value != 3 {
		t.Errorf("group A = %+v", a)
	}
	if !approx(b.StartAngle, 3*k+DefaultPadAngle) || !approx(b.EndAngle, 4*k+DefaultPadAngle) || b.Value != 1 {
		t.Errorf("group B = %+v", b)
	}

	if len(chords.Ribbons) != 1 {
		t.Fatalf("got %d ribbons, want 1", len(chords.Ribbons))
	}
	r := chords.Ribbons[0]
	if r.Source.Index != 0 || r.Source.Value != 3 || !approx(r.Source.Span(), 3*k) {
		t.Errorf("source = %+v", r.Source)
	}
	if r.Target.Index != 1 || r.Target.Value != 1 || !approx(r.Target.Span(), k) {
		t.Errorf("target = %+v", r.Target)
	}
}

func TestCompute_Empty(t *testing.T) {
	for _, m := range [][][]float64{nil, {}} {
		chords := New().Compute(m)
		if len(chords.Groups) != 0 || len(chords.Ribbons) != 0 {
			t.Errorf("Compute(%v) = %+v, want empty", m, chords)
		}
		if chords.Groups == nil || chords.Ribbons == nil {
			t.Error("empty layout should use empty slices, not nil")
		}
	}
}

func TestCompute_FullCircle(t *testing.T) {
	matrices := map[string][][]float64{
		"single self loop": {{2}},
		"asymmetric": {
			{0, 5, 1},
			{2, 0, 0},
			{0, 7, 0},
		},
		"one direction only": {
			{0, 4},
			{0, 0},
		},
		"with isolated zero row": {
			{0, 1, 0},
			{1, 0, 0},
			{0, 0, 0},
		},
		"all zero": {
			{0, 0},
			{0, 0},
		},
	}

	for name, m := range matrices {
		for _, directed := range []bool{false, true} {
			l := New()
			l.Directed = directed
			chords := l.Compute(m)

			// Everything after the last group is trailing padding.
			span := 0.0
			for _, g := range chords.Groups {
				span += g.Span()
			}
			n := float64(len(m))
			pad := DefaultPadAngle * n
			if span == 0 {
				pad = Tau
			}
			if !approx(span+pad, Tau) {
				t.Errorf("%s (directed=%v): spans %.6f + padding %.6f != 2π", name, directed, span, pad)
			}

			for i := 1; i < len(chords.Groups); i++ {
				if chords.Groups[i].StartAngle < chords.Groups[i-1].EndAngle {
					t.Errorf("%s: group %d overlaps group %d", name, i, i-1)
				}
			}
		}
	}
}

func TestCompute_OneDirectionRibbon(t *testing.T) {
	chords := New().Compute([][]float64{{0, 4}, {0, 0}})

	if len(chords.Ribbons) != 1 {
		t.Fatalf("got %d ribbons, want 1", len(chords.Ribbons))
	}
	r := chords.Ribbons[0]
	if r.Source.Index != 0 || r.Source.Value != 4 {
		t.Errorf("source = %+v", r.Source)
	}
	if r.Target.Index != 1 || r.Target.Value != 0 || r.Target.Span() != 0 {
		t.Errorf("empty direction should have zero span, got %+v", r.Target)
	}
}

func TestCompute_LargerDirectionIsSource(t *testing.T) {
	chords := New().Compute([][]float64{{0, 1}, {6, 0}})

	r := chords.Ribbons[0]
	if r.Source.Index != 1 || r.Source.Value != 6 {
		t.Errorf("source = %+v, want country 1 with 6", r.Source)
	}
	if r.Target.Index != 0 || r.Target.Value != 1 {
		t.Errorf("target = %+v, want country 0 with 1", r.Target)
	}
}

func TestCompute_SubgroupOrder(t *testing.T) {
	m := [][]float64{
		{0, 2, 5, 2},
		{1, 0, 0, 0},
		{1, 0, 0, 0},
		{1, 0, 0, 0},
	}

	tests := []struct {
		name  string
		order Order
		want  []int // partner index of each endpoint on group 0, by start angle
	}{
		{"descending with index tie-break", Descending, []int{2, 1, 3}},
		{"ascending with index tie-break", Ascending, []int{1, 3, 2}},
		{"index order", IndexOrder, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			l.SortSubgroups = tt.order
			chords := l.Compute(m)

			got := partnersByAngle(chords, 0)
			if len(got) != len(tt.want) {
				t.Fatalf("partners = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("partners = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

// partnersByAngle lists the other end of every ribbon touching group g,
// ordered by where the ribbon meets g.
func partnersByAngle(c Chords, g int) []int {
	type hit struct {
		angle   float64
		partner int
	}
	var hits []hit
	for _, r := range c.Ribbons {
		switch {
		case r.Source.Index == g:
			hits = append(hits, hit{r.Source.StartAngle, r.Target.Index})
		case r.Target.Index == g:
			hits = append(hits, hit{r.Target.StartAngle, r.Source.Index})
		}
	}
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].angle < hits[j-1].angle; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.partner
	}
	return out
}

func TestCompute_RibbonOrderAndSelfLoop(t *testing.T) {
	chords := New().Compute([][]float64{
		{0, 0, 2},
		{1, 3, 0},
		{0, 4, 0},
	})

	want := [][2]int{{0, 1}, {0, 2}, {1, 1}, {1, 2}}
	if len(chords.Ribbons) != len(want) {
		t.Fatalf("got %d ribbons, want %d", len(chords.Ribbons), len(want))
	}
	for i, r := range chords.Ribbons {
		lo, hi := r.Source.Index, r.Target.Index
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo != want[i][0] || hi != want[i][1] {
			t.Errorf("ribbon %d joins %d-%d, want %d-%d", i, lo, hi, want[i][0], want[i][1])
		}
	}

	self := chords.Ribbons[2]
	if self.Source != self.Target || self.Source.Value != 3 {
		t.Errorf("self loop = %+v", self)
	}
}

func TestCompute_Directed(t *testing.T) {
	l := New()
	l.Directed = true
	chords := l.Compute([][]float64{{0, 3}, {1, 0}})

	for _, g := range chords.Groups {
		if g.Value != 4 {
			t.Errorf("group %d value = %v, want outgoing+incoming 4", g.Index, g.Value)
		}
	}
	if len(chords.Ribbons) != 2 {
		t.Fatalf("got %d ribbons, want one per direction", len(chords.Ribbons))
	}
	for _, r := range chords.Ribbons {
		if r.Source.Value != r.Target.Value {
			t.Errorf("directed ribbon ends differ: %+v", r)
		}
		if !approx(r.Source.Span(), r.Target.Span()) {
			t.Errorf("directed ribbon spans differ: %+v", r)
		}
	}
	first := chords.Ribbons[0]
	if first.Source.Index != 0 || first.Target.Index != 1 || first.Source.Value != 3 {
		t.Errorf("first ribbon = %+v, want 0->1 with 3", first)
	}
}

func TestGroup_Label(t *testing.T) {
	tests := []struct {
		name        string
		start, end  float64
		wantFlipped bool
		wantAnchor  string
	}{
		{"right half", 0.2, 1.0, false, "start"},
		{"exactly pi", math.Pi - 0.5, math.Pi + 0.5, false, "start"},
		{"left half", 3.5, 4.5, true, "end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Group{StartAngle: tt.start, EndAngle: tt.end}
			l := g.Label()
			mid := (tt.start + tt.end) / 2
			if !approx(l.Angle, mid) {
				t.Errorf("Angle = %v, want %v", l.Angle, mid)
			}
			if !approx(l.Rotate, mid*180/math.Pi-90) {
				t.Errorf("Rotate = %v", l.Rotate)
			}
			if l.Flipped != tt.wantFlipped || l.Anchor != tt.wantAnchor {
				t.Errorf("Flipped = %v, Anchor = %q; want %v, %q", l.Flipped, l.Anchor, tt.wantFlipped, tt.wantAnchor)
			}
		})
	}
}

func TestCompute_Pure(t *testing.T) {
	m := [][]float64{{0, 2, 1}, {3, 0, 0}, {0, 1, 0}}
	l := New()

	first := l.Compute(m)
	second := l.Compute(m)

	if len(first.Ribbons) != len(second.Ribbons) {
		t.Fatal("repeated Compute gave different ribbon counts")
	}
	for i := range first.Groups {
		if first.Groups[i] != second.Groups[i] {
			t.Errorf("group %d differs between calls", i)
		}
	}
	for i := range first.Ribbons {
		if first.Ribbons[i] != second.Ribbons[i] {
			t.Errorf("ribbon %d differs between calls", i)
		}
	}
}
