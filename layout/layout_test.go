package layout_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	festpdf "github.com/zonefest/festpdf"
	"github.com/zonefest/festpdf/layout"
	"github.com/zonefest/festpdf/metrics"
)

// mono measures every rune as half the font size wide.
var mono = metrics.Func(func(text string, _ festpdf.Font, size float64) (float64, error) {
	return float64(len([]rune(text))) * size / 2, nil
})

func TestFitSizeKeepsBaseWhenItFits(t *testing.T) {
	fit, err := layout.FitSize(mono, "Oppana", festpdf.Bold, 14, 8, 100)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(layout.Fit{Size: 14, Fits: true}, fit); diff != "" {
		t.Errorf("fit mismatch (-want +got):\n%s", diff)
	}
}

func TestFitSizeStepsDown(t *testing.T) {
	// 10 runes * size/2 <= 50 needs size <= 10.
	fit, err := layout.FitSize(mono, "Kathakali!", festpdf.Bold, 14, 8, 50)
	if err != nil {
		t.Fatal(err)
	}
	if !fit.Fits || fit.Size != 10 {
		t.Errorf("fit = %+v, want size 10 fitting", fit)
	}
}

func TestFitSizeFloorOverflow(t *testing.T) {
	fit, err := layout.FitSize(mono, strings.Repeat("x", 40), festpdf.Bold, 14, 8, 50)
	if err != nil {
		t.Fatal(err)
	}
	if fit.Fits || fit.Size != 8 {
		t.Errorf("fit = %+v, want floor 8 overflowing", fit)
	}
}

func TestFitSizeMonotonic(t *testing.T) {
	text := "Government Engineering College Thrissur"
	prev := 1e9
	for w := 300.0; w >= 20; w -= 7 {
		fit, err := layout.FitSize(mono, text, festpdf.Bold, 16, 6, w)
		if err != nil {
			t.Fatal(err)
		}
		if fit.Size > prev {
			t.Fatalf("width %v gave size %v, larger than %v at a wider box", w, fit.Size, prev)
		}
		prev = fit.Size
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		want      layout.Line
	}{
		{"fits", 100, layout.Line{Text: "Mohiniyattam Dance", Width: 90}},
		{"cut", 50, layout.Line{Text: "Mohiniy...", Width: 50}},
		{"trailing space", 55, layout.Line{Text: "Mohiniya...", Width: 55}},
		{"nothing fits", 10, layout.Line{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := layout.Truncate(mono, "Mohiniyattam Dance", festpdf.Regular, 10, tc.available)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("line mismatch (-want +got):\n%s", diff)
			}
			if got.Width > tc.available {
				t.Errorf("width %v exceeds %v", got.Width, tc.available)
			}
		})
	}

	line, err := layout.Truncate(mono, "Ottan Thullal", festpdf.Regular, 10, 40)
	if err != nil {
		t.Fatal(err)
	}
	if line.Text != "Ottan..." {
		t.Errorf("got %q, want the space before the cut trimmed", line.Text)
	}
}

func TestWrapGreedy(t *testing.T) {
	// Size 2 makes each rune 1pt wide.
	lines, err := layout.Wrap(mono, "aa bb cc dd", festpdf.Regular, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []layout.Line{{Text: "aa bb", Width: 5}, {Text: "cc dd", Width: 5}}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapOversizedTokenAlone(t *testing.T) {
	lines, err := layout.Wrap(mono, "a Bharatanatyam b", festpdf.Regular, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, len(lines))
	for i, l := range lines {
		got[i] = l.Text
	}
	if diff := cmp.Diff([]string{"a", "Bharatanatyam", "b"}, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapBlank(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		n, err := layout.CountLines(mono, text, festpdf.Regular, 10, 100)
		if err != nil || n != 0 {
			t.Errorf("CountLines(%q) = %d, %v; want 0, nil", text, n, err)
		}
	}
}

func TestCountLinesMatchesWrap(t *testing.T) {
	text := "St. Thomas College of Engineering and Technology Chengannur"
	for _, w := range []float64{20, 45, 80, 200} {
		lines, err := layout.Wrap(mono, text, festpdf.Regular, 2, w)
		if err != nil {
			t.Fatal(err)
		}
		n, err := layout.CountLines(mono, text, festpdf.Regular, 2, w)
		if err != nil {
			t.Fatal(err)
		}
		if n != len(lines) {
			t.Errorf("width %v: CountLines = %d, Wrap produced %d", w, n, len(lines))
		}
	}
}

func TestCursorEmit(t *testing.T) {
	c := layout.NewCursor(10, 100, 3)
	for i := 0; i < 3; i++ {
		if !c.Emit(1) {
			t.Fatalf("emit %d refused", i)
		}
	}
	if c.Emit(1) {
		t.Fatal("emit past capacity accepted")
	}
	if c.Emitted() != 3 || c.Y != 103 || c.Remaining != 0 {
		t.Errorf("cursor = %+v emitted %d", c, c.Emitted())
	}
}

func TestCursorAbsorbsRounding(t *testing.T) {
	c := layout.NewCursor(0, 0, 0.3)
	if !c.Emit(0.1) || !c.Emit(0.1) || !c.Emit(0.1) {
		t.Error("three 0.1 rows should fill a 0.3 box")
	}
}

func TestPlanHeightsBreaksBeforeOverflow(t *testing.T) {
	const lh = 16.0
	// Capacity of six lines: 2 fits, 2+5 does not.
	plan := layout.PlanHeights([]float64{2 * lh, 5 * lh}, 6*lh, 6*lh)
	if diff := cmp.Diff(layout.Plan{Breaks: []int{1}, Rows: 2}, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if plan.Pages() != 2 {
		t.Errorf("pages = %d, want 2", plan.Pages())
	}
}

func TestPlanHeightsOversizedRow(t *testing.T) {
	plan := layout.PlanHeights([]float64{1, 50, 1}, 10, 10)
	if diff := cmp.Diff([]int{1, 2}, plan.Breaks); diff != "" {
		t.Errorf("breaks mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanHeightsFirstPageSmaller(t *testing.T) {
	heights := make([]float64, 10)
	for i := range heights {
		heights[i] = 1
	}
	plan := layout.PlanHeights(heights, 3, 5)
	if diff := cmp.Diff([]int{3, 8}, plan.Breaks); diff != "" {
		t.Errorf("breaks mismatch (-want +got):\n%s", diff)
	}
	start, end := plan.Page(2)
	if start != 8 || end != 10 {
		t.Errorf("page 2 = [%d,%d), want [8,10)", start, end)
	}
}

func TestPlanEmpty(t *testing.T) {
	plan := layout.PlanHeights(nil, 10, 10)
	if plan.Pages() != 0 {
		t.Errorf("pages = %d, want 0", plan.Pages())
	}
}

func TestPlanUniformAgreesWithHeights(t *testing.T) {
	const rowH = 18.0
	for rows := 0; rows < 120; rows += 7 {
		heights := make([]float64, rows)
		for i := range heights {
			heights[i] = rowH
		}
		want := layout.PlanHeights(heights, 600, 720)
		got := layout.PlanUniform(rows, rowH, 600, 720)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%d rows (-heights +uniform):\n%s", rows, diff)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	heights := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	a := layout.PlanHeights(heights, 10, 12)
	b := layout.PlanHeights(heights, 10, 12)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("plans differ:\n%s", diff)
	}
}
