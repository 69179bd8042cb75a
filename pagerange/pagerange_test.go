package pagerange

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name      string
		expr      string
		pageCount int
		want      []int
	}{
		{"single", "3", 10, []int{2}},
		{"range", "1-3", 10, []int{0, 1, 2}},
		{"mixed", "1-3,5", 10, []int{0, 1, 2, 4}},
		{"duplicates collapse", "2,2,1-3", 10, []int{1, 0, 2}},
		{"out of range dropped", "1,99", 3, []int{0}},
		{"zero and negative dropped", "0,-1,2", 3, []int{1}},
		{"reversed range dropped", "5-3,1", 10, []int{0}},
		{"malformed dropped", "a,1-,x-y,2", 10, []int{1}},
		{"whitespace tolerated", " 1 , 2 - 3 ", 10, []int{0, 1, 2}},
		{"empty expr", "", 10, []int{}},
		{"range clipped to document", "8-12", 10, []int{7, 8, 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.expr, tc.pageCount)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%q, %d) = %v, want %v", tc.expr, tc.pageCount, got, tc.want)
			}
		})
	}
}

func TestParseSubsetProperty(t *testing.T) {
	exprs := []string{"1-100", "0-5,7,9-12", "50,50,50", "3-3", "-2,4"}
	for _, expr := range exprs {
		for _, n := range []int{0, 1, 7, 31} {
			got := Parse(expr, n)
			seen := make(map[int]bool)
			for _, idx := range got {
				if idx < 0 || idx >= n {
					t.Fatalf("Parse(%q, %d) produced out-of-bounds index %d", expr, n, idx)
				}
				if seen[idx] {
					t.Fatalf("Parse(%q, %d) produced duplicate index %d", expr, n, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestFromIndices(t *testing.T) {
	got := FromIndices([]int{3, 1, 3, 99, 0}, 5)
	want := []int{2, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FromIndices = %v, want %v", got, want)
	}
}

func TestClampKeepsLength(t *testing.T) {
	got := Clamp([]int{5, 1, 99, -3, 2}, 4)
	want := []int{3, 0, 3, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clamp = %v, want %v", got, want)
	}
	if len(got) != 5 {
		t.Fatalf("Clamp must preserve length, got %d", len(got))
	}
}

func TestSelection(t *testing.T) {
	got := Selection([]int{0, 4, 2})
	want := []string{"1", "5", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Selection = %v, want %v", got, want)
	}
}

func TestAll(t *testing.T) {
	if got := All(3); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("All(3) = %v", got)
	}
}
