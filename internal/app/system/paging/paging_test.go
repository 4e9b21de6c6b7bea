package paging

import (
	"errors"
	"math"
	"net/http/httptest"
	"testing"
)

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		limit   int
		want    Window
		wantErr error
	}{
		{name: "defaults", page: 0, limit: 0, want: Window{Page: 1, Limit: 25}},
		{name: "explicit 50", page: 3, limit: 50, want: Window{Page: 3, Limit: 50}},
		{name: "explicit 100", page: 1, limit: 100, want: Window{Page: 1, Limit: 100}},
		{name: "limit 30 rejected", page: 1, limit: 30, wantErr: ErrInvalidLimit},
		{name: "limit 1000 not clamped", page: 1, limit: 1000, wantErr: ErrInvalidLimit},
		{name: "negative limit", page: 1, limit: -25, wantErr: ErrInvalidLimit},
		{name: "negative page", page: -1, limit: 25, wantErr: ErrInvalidPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewWindow(tt.page, tt.limit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewWindow(%d, %d) err = %v, want %v", tt.page, tt.limit, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWindow(%d, %d) unexpected err: %v", tt.page, tt.limit, err)
			}
			if got != tt.want {
				t.Errorf("NewWindow(%d, %d) = %+v, want %+v", tt.page, tt.limit, got, tt.want)
			}
		})
	}
}

func TestWindow_Skip(t *testing.T) {
	tests := []struct {
		w    Window
		want int64
	}{
		{Window{Page: 1, Limit: 25}, 0},
		{Window{Page: 2, Limit: 25}, 25},
		{Window{Page: 4, Limit: 100}, 300},
		{Window{Page: math.MaxInt, Limit: 100}, maxSkip},
		{Window{Page: math.MaxInt / 100, Limit: 100}, maxSkip},
	}
	for _, tt := range tests {
		if got := tt.w.Skip(); got != tt.want {
			t.Errorf("%+v.Skip() = %d, want %d", tt.w, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 25, 0},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{30, 25, 2},
		{101, 50, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		url    string
		want   int
		wantOK bool
	}{
		{"/?page=3", 3, true},
		{"/", 0, true},
		{"/?page=abc", 0, false},
		{"/?page=-2", -2, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		got, ok := ParseInt(r, "page")
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseInt(%q) = (%d, %v), want (%d, %v)", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}
