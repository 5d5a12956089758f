package search

// Control is one entry of the page navigation strip. An ellipsis control
// has Page == 0.
type Control struct {
	Page     int    `json:"page,omitempty"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
	Current  bool   `json:"current,omitempty"`
	Href     string `json:"href,omitempty"`
}

// maxFlatPages is the largest page count rendered without collapsing.
const maxFlatPages = 5

// TotalPages is ceil(total/size); zero matches give zero pages.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Window computes the page-number strip for current out of total pages.
// A single page renders nothing. An out-of-range current positions the
// window at the nearest end but marks no control as current.
func Window(current, total int) []Control {
	if total <= 1 {
		return nil
	}
	marked := current
	current = min(max(current, 1), total)

	page := func(n int) Control { return Control{Page: n, Current: n == marked} }

	if total <= maxFlatPages {
		out := make([]Control, 0, total)
		for n := 1; n <= total; n++ {
			out = append(out, page(n))
		}
		return out
	}

	start, end := current-1, current+1
	switch {
	case current <= 2:
		start, end = 2, 4
	case current >= total-1:
		start, end = total-3, total-1
	}

	out := []Control{page(1)}
	if start > 2 {
		out = append(out, Control{Ellipsis: true})
	}
	for n := start; n <= end; n++ {
		out = append(out, page(n))
	}
	if end < total-1 {
		out = append(out, Control{Ellipsis: true})
	}
	return append(out, page(total))
}

// Controls is Window with each page control linked to its URL under path.
func Controls(s State, total int, path string) []Control {
	out := Window(s.Page, total)
	for i := range out {
		if !out[i].Ellipsis {
			out[i].Href = s.WithPage(out[i].Page).Apply(path)
		}
	}
	return out
}

// GoToPage moves s to page n. Out-of-range targets leave s unchanged and
// report false.
func GoToPage(s State, n, total int) (State, bool) {
	if n < 1 || n > total {
		return s, false
	}
	return s.WithPage(n), true
}
