package pagination

import "testing"

func TestDefaults(t *testing.T) {
	var req PageRequest
	req.Defaults()
	if req.Page != 1 || req.Limit != 10 {
		t.Errorf("expected page=1 limit=10, got page=%d limit=%d", req.Page, req.Limit)
	}

	req = PageRequest{Page: 3, Limit: 25}
	req.Defaults()
	if req.Page != 3 || req.Limit != 25 {
		t.Errorf("Defaults must not override explicit values, got page=%d limit=%d", req.Page, req.Limit)
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 7, 28},
	}
	for _, c := range cases {
		req := PageRequest{Page: c.page, Limit: c.limit}
		if got := req.Offset(); got != c.want {
			t.Errorf("page=%d limit=%d: expected offset %d, got %d", c.page, c.limit, c.want, got)
		}
	}
}

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int
		total       int64
		wantPages   int
	}{
		{"exact_fit", 1, 10, 20, 2},
		{"partial_last_page", 2, 10, 15, 2},
		{"empty", 1, 10, 0, 0},
		{"single", 1, 10, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meta := NewPageMeta(c.page, c.limit, c.total)
			if meta.Current != c.page {
				t.Errorf("expected current %d, got %d", c.page, meta.Current)
			}
			if meta.Pages != c.wantPages {
				t.Errorf("expected pages %d, got %d", c.wantPages, meta.Pages)
			}
			if meta.Total != c.total {
				t.Errorf("expected total %d, got %d", c.total, meta.Total)
			}
		})
	}
}
