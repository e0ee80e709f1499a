package models

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{Page: -1, Size: 0, SortDirection: "sideways"}.Normalize()
	if p.Page != 0 || p.Size != DefaultPageSize || p.SortDirection != "desc" {
		t.Fatalf("unexpected defaults %+v", p)
	}
	p = PageRequest{Page: 2, Size: 1000, SortDirection: "asc"}.Normalize()
	if p.Size != MaxPageSize || p.SortDirection != "asc" {
		t.Fatalf("unexpected %+v", p)
	}
	if p.Offset() != 2*MaxPageSize {
		t.Fatalf("offset %d", p.Offset())
	}
}

func TestNewPage(t *testing.T) {
	req := PageRequest{Page: 1, Size: 10}
	pg := NewPage([]int{1, 2, 3}, req, 23)
	if pg.TotalPages != 3 || pg.TotalElements != 23 || pg.Page != 1 || pg.Size != 10 {
		t.Fatalf("unexpected %+v", pg)
	}
	empty := NewPage[int](nil, req, 0)
	if empty.Content == nil || empty.TotalPages != 0 {
		t.Fatalf("expected empty non-nil content, got %+v", empty)
	}
}
