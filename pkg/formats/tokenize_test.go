package formats

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		delim byte
		want  []string
	}{
		{"empty", "", '/', nil},
		{"single", "12", '/', []string{"12"}},
		{"full compound", "12/4/7", '/', []string{"12", "4", "7"}},
		{"missing texture", "12//7", '/', []string{"12", "", "7"}},
		{"trailing delimiter", "12/4/", '/', []string{"12", "4"}},
		{"leading delimiter", "/4", '/', []string{"", "4"}},
		{"spaces kept", "a b", '/', []string{"a b"}},
		{"space delimiter", "v 1 2", ' ', []string{"v", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input, tt.delim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q, %q) = %q, want %q", tt.input, tt.delim, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	got := Fields("  1.0\t2.0   3.0 \r")
	want := []string{"1.0", "2.0", "3.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %q, want %q", got, want)
	}
	if got := Fields("   "); len(got) != 0 {
		t.Errorf("Fields(blank) = %q, want empty", got)
	}
}

func TestSplitField(t *testing.T) {
	tests := []struct {
		field   string
		want    string
		wantErr bool
	}{
		{"3", "3", false},
		{"3/1", "3", false},
		{"3/1/2", "3", false},
		{"3//2", "3", false},
		{"-1/2", "-1", false},
		{"/1/2", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := SplitField(tt.field)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedField) {
				t.Errorf("SplitField(%q) error = %v, want ErrMalformedField", tt.field, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("SplitField(%q) unexpected error: %v", tt.field, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SplitField(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}
