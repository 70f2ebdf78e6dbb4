package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s         string
		def, want int
	}{
		{"", 10, 10},
		{"42", 0, 42},
		{"-13", 1, -13},
		{"x", 5, 5},
		{" 42", 7, 7},
		{"999999999999999999999999", -1, -1},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, DefaultPageSize},
		{"0", "0", 1, 1},
		{"-4", "-1", 1, 1},
		{"3", "50", 3, 50},
		{"2", "1000", 2, MaxPageSize},
		{"abc", "xyz", 1, DefaultPageSize},
		{"9223372036854775807", "10", MaxPage, 10},
	}
	for _, tc := range cases {
		p, s := ClampPage(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("ClampPage(%q,%q) = %d,%d; want %d,%d", tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		page, size           int
		wantOffset, wantSize int
	}{
		{0, 0, 0, DefaultPageSize},
		{3, 5, 10, 5},
		{-2, 1000, 0, MaxPageSize},
		{int(^uint(0) >> 1), MaxPageSize, (MaxPage - 1) * MaxPageSize, MaxPageSize},
	}
	for _, tc := range cases {
		o, l := Window(tc.page, tc.size)
		if o != tc.wantOffset || l != tc.wantSize {
			t.Fatalf("Window(%d,%d) = %d,%d; want %d,%d", tc.page, tc.size, o, l, tc.wantOffset, tc.wantSize)
		}
		if o < 0 {
			t.Fatalf("Window(%d,%d) offset overflowed: %d", tc.page, tc.size, o)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0}, {1, 20, 1}, {20, 20, 1}, {21, 20, 2}, {5, 0, 0},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d,%d) = %d; want %d", tc.total, tc.size, got, tc.want)
		}
	}
}
