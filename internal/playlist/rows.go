package playlist

import "fmt"

// MoveUp moves every selected row one position towards the top. A row
// already at the top, or directly below a selected row that cannot move,
// stays put, so contiguous selections keep their relative order. It returns
// the new order and the new positions of the selected rows.
func MoveUp(entries []string, rows []int) ([]string, []int, error) {
	selected, err := selection(len(entries), rows)
	if err != nil {
		return nil, nil, err
	}
	out := append([]string(nil), entries...)
	for i := 1; i < len(out); i++ {
		if selected[i] && !selected[i-1] {
			out[i], out[i-1] = out[i-1], out[i]
			selected[i], selected[i-1] = false, true
		}
	}
	return out, selectedRows(selected), nil
}

// MoveDown is the mirror of MoveUp towards the end of the list.
func MoveDown(entries []string, rows []int) ([]string, []int, error) {
	selected, err := selection(len(entries), rows)
	if err != nil {
		return nil, nil, err
	}
	out := append([]string(nil), entries...)
	for i := len(out) - 2; i >= 0; i-- {
		if selected[i] && !selected[i+1] {
			out[i], out[i+1] = out[i+1], out[i]
			selected[i], selected[i+1] = false, true
		}
	}
	return out, selectedRows(selected), nil
}

// Remove drops the selected rows.
func Remove(entries []string, rows []int) ([]string, error) {
	selected, err := selection(len(entries), rows)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		if !selected[i] {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Unique returns the incoming paths that are not already present in
// existing, dropping repeats within incoming as well.
func Unique(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, path := range existing {
		seen[path] = struct{}{}
	}
	out := make([]string, 0, len(incoming))
	for _, path := range incoming {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	return out
}

func selection(n int, rows []int) ([]bool, error) {
	selected := make([]bool, n)
	for _, row := range rows {
		if row < 0 || row >= n {
			return nil, fmt.Errorf("row %d out of range (playlist has %d entries)", row, n)
		}
		selected[row] = true
	}
	return selected, nil
}

func selectedRows(selected []bool) []int {
	rows := make([]int, 0, len(selected))
	for i, ok := range selected {
		if ok {
			rows = append(rows, i)
		}
	}
	return rows
}
