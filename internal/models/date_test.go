package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d != NewDate(2024, time.January, 2) {
		t.Fatalf("unexpected date %+v", d)
	}
	if _, err := ParseDate("02.01.2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2024, time.January, 1)
	b := NewDate(2024, time.January, 2)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatalf("Before is not a strict order")
	}
	if !NewDate(2023, time.December, 31).Before(a) {
		t.Fatalf("expected year to dominate")
	}
}

func TestFormatDateNull(t *testing.T) {
	if got := FormatDate(nil); got != "null" {
		t.Fatalf("expected null, got %q", got)
	}
	d := NewDate(2024, time.March, 5)
	if got := FormatDate(&d); got != "2024-03-05" {
		t.Fatalf("got %q", got)
	}
}

func TestSameDate(t *testing.T) {
	a := NewDate(2024, time.March, 5)
	b := NewDate(2024, time.March, 5)
	c := NewDate(2024, time.March, 6)
	cases := []struct {
		x, y *Date
		want bool
	}{
		{nil, nil, true},
		{&a, nil, false},
		{nil, &a, false},
		{&a, &b, true},
		{&a, &c, false},
	}
	for i, tc := range cases {
		if got := SameDate(tc.x, tc.y); got != tc.want {
			t.Errorf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		Due *Date `json:"due_date"`
	}
	if err := json.Unmarshal([]byte(`{"due_date":"2024-01-01"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Due == nil || v.Due.String() != "2024-01-01" {
		t.Fatalf("unexpected %+v", v.Due)
	}
	if err := json.Unmarshal([]byte(`{"due_date":null}`), &v); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if v.Due != nil {
		t.Fatalf("expected nil due date")
	}
	if err := json.Unmarshal([]byte(`{"due_date":"tomorrow"}`), &v); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2024-02-29" {
		t.Fatalf("time.Time: %v %v", d, err)
	}
	if err := d.Scan("2024-03-01T00:00:00Z"); err != nil || d.String() != "2024-03-01" {
		t.Fatalf("string: %v %v", d, err)
	}
	if err := d.Scan([]byte("2024-03-02")); err != nil || d.String() != "2024-03-02" {
		t.Fatalf("bytes: %v %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error for int")
	}
}
