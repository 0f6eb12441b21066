package parse

import (
	"reflect"
	"testing"
)

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hi", true},
		{"Hello!", true},
		{"good morning", true},
		{"good morning there", true},
		{"", true},
		{"good morning i want cement", false},
		{"i want cement", false},
	}
	for _, tt := range tests {
		if got := IsGreeting(tt.in); got != tt.want {
			t.Errorf("IsGreeting(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsHoursQuestion(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"what are your hours?", true},
		{"when do you open", true},
		{"are you open on saturday", true},
		{"i want cement", false},
	}
	for _, tt := range tests {
		if got := IsHoursQuestion(tt.in); got != tt.want {
			t.Errorf("IsHoursQuestion(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCartRequests(t *testing.T) {
	if !IsCartShowRequest("show my budget please") {
		t.Error("expected cart show")
	}
	if !IsCartResetRequest("clear budget and start over") {
		t.Error("expected cart reset")
	}
	if !IsCheckoutRequest("finalize") {
		t.Error("expected checkout")
	}
	if !IsRemovalRequest("remove the cement") {
		t.Error("expected removal")
	}
	if IsCartShowRequest("i want cement") {
		t.Error("unexpected cart show")
	}
}

func TestHasProductIntent(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"i want cement", true},
		{"do you have fine sand?", true},
		{"cement 200kg", true},
		{"tape measure", true},
		{"hi", false},
		{"delivery and pix", false},
		{"ok", false},
		{"clear budget", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HasProductIntent(tt.in); got != tt.want {
			t.Errorf("HasProductIntent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractProductHint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare product", "cement 200kg", "cement"},
		{"intent verb tail", "i want 4 bags of cement cp2", "cement cp ii"},
		{"multiplier stripped", "i want 2x fine sand", "fine sand"},
		{"preference cut", "i want cement and delivery to riverside", "cement"},
		{"checkout is not a product", "finalize", ""},
		{"preferences only", "delivery and pix", ""},
		{"zip only", "12345-678", ""},
		{"greeting", "good morning", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractProductHint(tt.in); got != tt.want {
				t.Errorf("ExtractProductHint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractKgQuantity(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"200kg", 200, true},
		{"i want 50 kg of cement", 50, true},
		{"4 bags", 0, false},
		{"no numbers here", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractKgQuantity(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractKgQuantity(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractUnitsQuantity(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"4 bags", 4, true},
		{"1 unit", 1, true},
		{"10 units please", 10, true},
		{"200kg", 0, false},
		{"just text", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractUnitsQuantity(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractUnitsQuantity(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractPlainNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"4", 4, true},
		{"12", 12, true},
		{"4 bags", 0, false},
		{"four", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractPlainNumber(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractPlainNumber(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPackagingKg(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Cement CP II 50kg", 50, true},
		{"Mortar AC-I 20kg", 20, true},
		{"Cement CP IV 25kg", 25, true},
		{"Fine Sand m3", 0, false},
		{"Tape Measure 5m", 0, false},
	}
	for _, tt := range tests {
		got, ok := PackagingKg(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("PackagingKg(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSuggestUnitsFromPackaging(t *testing.T) {
	units, note, ok := SuggestUnitsFromPackaging("Cement CP II 50kg", 200)
	if !ok {
		t.Fatal("expected a conversion")
	}
	if units != 4 {
		t.Errorf("units = %v, want 4", units)
	}
	if note != "200kg ≈ 4 bag(s) of 50kg" {
		t.Errorf("note = %q", note)
	}

	if _, _, ok := SuggestUnitsFromPackaging("Fine Sand m3", 200); ok {
		t.Error("products without bag size must not convert")
	}
}

func TestParseChoiceIndices(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   []int
	}{
		{"single", "2", 3, []int{1}},
		{"multiple", "1 and 3", 3, []int{0, 2}},
		{"dedup", "1, 1 and 2", 3, []int{0, 1}},
		{"out of range dropped", "5", 3, nil},
		{"zero dropped", "0", 3, nil},
		{"no digits", "the first one", 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseChoiceIndices(tt.in, tt.maxLen)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseChoiceIndices(%q, %d) = %v, want %v", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}
