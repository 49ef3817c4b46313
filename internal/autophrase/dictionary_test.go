package autophrase

import (
	"reflect"
	"testing"
)

func TestDictionary_Lookup(t *testing.T) {
	d := NewDictionary([]string{
		"big apple",
		"new york city",
		"new york",
		"property tax",
	}, false)

	tests := []struct {
		name string
		word string
		want []string
	}{
		{"single phrase", "big", []string{"big apple"}},
		{"multiple phrases", "new", []string{"new york city", "new york"}},
		{"no phrase", "orange", nil},
		{"non-first word", "york", nil},
		{"case folded", "NEW", []string{"new york city", "new york"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Lookup(tt.word)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestDictionary_CaseSensitive(t *testing.T) {
	d := NewDictionary([]string{"New York"}, true)

	if got := d.Lookup("New"); len(got) != 1 {
		t.Errorf("Lookup(New) = %v, want one phrase", got)
	}
	if got := d.Lookup("new"); got != nil {
		t.Errorf("Lookup(new) = %v, want nil", got)
	}
}

func TestDictionary_SkipsSingleWords(t *testing.T) {
	d := NewDictionary([]string{"york", "new york", "  spaced  "}, false)

	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
	if got := d.Lookup("york"); got != nil {
		t.Errorf("Lookup(york) = %v, want nil", got)
	}
}

func TestDictionary_Dedup(t *testing.T) {
	d := NewDictionary([]string{"new york", "new  york", "new york"}, false)
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestDictionary_Empty(t *testing.T) {
	for _, d := range []*Dictionary{nil, NewDictionary(nil, false), NewDictionary([]string{}, true)} {
		if d.Len() != 0 {
			t.Errorf("Len() = %d, want 0", d.Len())
		}
		if got := d.Lookup("anything"); got != nil {
			t.Errorf("Lookup on empty dictionary = %v, want nil", got)
		}
	}
}

func TestDictionary_Phrases(t *testing.T) {
	d := NewDictionary([]string{"new york", "big apple"}, false)
	want := []string{"big apple", "new york"}
	if got := d.Phrases(); !reflect.DeepEqual(got, want) {
		t.Errorf("Phrases() = %v, want %v", got, want)
	}
}
