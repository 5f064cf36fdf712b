package playlist_test

import (
	"reflect"
	"testing"

	"iriverpla/internal/playlist"
)

func TestFilterSupportedKeepsOrder(t *testing.T) {
	input := []string{
		"/m/b.flac",
		"/m/cover.jpg",
		"/m/a.mp3",
		"/m/notes.txt",
		"/m/c.OGG",
		"/m/d.wma",
		"/m/mp3",
		"/m/archive.mp3.zip",
	}
	got := playlist.FilterSupported(input)
	want := []string{"/m/b.flac", "/m/a.mp3", "/m/c.OGG", "/m/d.wma"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterSupported = %v, want %v", got, want)
	}
}

func TestFilterSupportedIsIdempotent(t *testing.T) {
	inputs := [][]string{
		nil,
		{"a.mp3", "b.txt", "c.flac", "a.mp3"},
		{"x.wav", "y.aac"},
	}
	for _, input := range inputs {
		once := playlist.FilterSupported(input)
		twice := playlist.FilterSupported(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("filter not idempotent for %v: %v vs %v", input, once, twice)
		}
	}
}

func TestFilterSupportedDoesNotMutateInput(t *testing.T) {
	input := []string{"a.txt", "b.mp3"}
	_ = playlist.FilterSupported(input)
	if input[0] != "a.txt" || input[1] != "b.mp3" {
		t.Fatalf("input mutated: %v", input)
	}
}
