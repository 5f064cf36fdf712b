package playlist_test

import (
	"reflect"
	"testing"

	"iriverpla/internal/playlist"
)

func TestMoveUp(t *testing.T) {
	entries := []string{"a", "b", "c", "d"}
	cases := []struct {
		name     string
		rows     []int
		want     []string
		wantRows []int
	}{
		{"single", []int{2}, []string{"a", "c", "b", "d"}, []int{1}},
		{"top stays", []int{0}, []string{"a", "b", "c", "d"}, []int{0}},
		{"blocked block", []int{0, 1}, []string{"a", "b", "c", "d"}, []int{0, 1}},
		{"block moves", []int{2, 1}, []string{"b", "c", "a", "d"}, []int{0, 1}},
		{"gapped", []int{1, 3}, []string{"b", "a", "d", "c"}, []int{0, 2}},
	}
	for _, tc := range cases {
		got, rows, err := playlist.MoveUp(entries, tc.rows)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) || !reflect.DeepEqual(rows, tc.wantRows) {
			t.Fatalf("%s: got %v rows %v, want %v rows %v", tc.name, got, rows, tc.want, tc.wantRows)
		}
	}
	if entries[0] != "a" || entries[2] != "c" {
		t.Fatalf("input mutated: %v", entries)
	}
}

func TestMoveDown(t *testing.T) {
	entries := []string{"a", "b", "c", "d"}
	got, rows, err := playlist.MoveDown(entries, []int{0, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"b", "a", "c", "d"}) || !reflect.DeepEqual(rows, []int{1, 3}) {
		t.Fatalf("got %v rows %v", got, rows)
	}

	got, _, err = playlist.MoveDown(entries, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "d", "b", "c"}) {
		t.Fatalf("block move down got %v", got)
	}
}

func TestRowsOutOfRange(t *testing.T) {
	if _, _, err := playlist.MoveUp([]string{"a"}, []int{1}); err == nil {
		t.Fatal("expected error for out of range row")
	}
	if _, err := playlist.Remove([]string{"a"}, []int{-1}); err == nil {
		t.Fatal("expected error for negative row")
	}
}

func TestRemove(t *testing.T) {
	got, err := playlist.Remove([]string{"a", "b", "a", "c"}, []int{0, 3})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("Remove = %v", got)
	}
}

func TestUnique(t *testing.T) {
	got := playlist.Unique([]string{"/m/a.mp3"}, []string{"/m/a.mp3", "/m/b.mp3", "/m/b.mp3", "/m/c.mp3"})
	if !reflect.DeepEqual(got, []string{"/m/b.mp3", "/m/c.mp3"}) {
		t.Fatalf("Unique = %v", got)
	}
}
