package guardrail

import (
	"strings"
	"testing"
)

func TestApplyCleanTextUntouched(t *testing.T) {
	in := "Budget summary:\n2 x Cement CP II 50kg = $ 17.80\nApproximate total: $ 17.80"
	got, altered := Apply(in)
	if altered {
		t.Fatal("clean text should not be altered")
	}
	if got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestApplyStripsForbiddenLines(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		gone    string
		remains string
	}{
		{
			name:    "email claim",
			in:      "Order registered.\nYou will receive an email with the receipt.\nAnything else?",
			gone:    "email",
			remains: "Order registered.",
		},
		{
			name:    "tracking code",
			in:      "Done!\nYour tracking code is BR123456789.",
			gone:    "tracking",
			remains: "Done!",
		},
		{
			name:    "pix qr code",
			in:      "Here is the QR code for the PIX payment.\nTotal: $ 50.00",
			gone:    "qr",
			remains: "Total: $ 50.00",
		},
		{
			name:    "shipping claim",
			in:      "Your order was shipped this morning.\nThanks!",
			gone:    "shipped",
			remains: "Thanks!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, altered := Apply(tt.in)
			if !altered {
				t.Fatal("expected text to be altered")
			}
			lower := strings.ToLower(got)
			body := strings.ToLower(strings.ReplaceAll(got, SafeNote, ""))
			if strings.Contains(body, tt.gone) {
				t.Errorf("forbidden fragment %q survived: %q", tt.gone, got)
			}
			if !strings.Contains(got, tt.remains) {
				t.Errorf("legitimate line %q was dropped: %q", tt.remains, got)
			}
			if !strings.Contains(lower, strings.ToLower(SafeNote)) {
				t.Error("SafeNote not appended")
			}
		})
	}
}

func TestApplyFullyForbiddenTextGetsFallback(t *testing.T) {
	got, altered := Apply("You will receive an email with the tracking code.")
	if !altered {
		t.Fatal("expected alteration")
	}
	if !strings.Contains(got, "hand it to an agent") {
		t.Errorf("expected fallback text, got %q", got)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	in := "Order registered.\nYou will receive an email shortly.\nThanks!"
	once, _ := Apply(in)
	twice, _ := Apply(once)
	if once != twice {
		t.Errorf("second application changed text:\nonce : %q\ntwice: %q", once, twice)
	}
	if strings.Count(twice, SafeNote) != 1 {
		t.Errorf("SafeNote should appear exactly once, got %d", strings.Count(twice, SafeNote))
	}
}

func TestApplyEmptyText(t *testing.T) {
	got, altered := Apply("")
	if altered || got != "" {
		t.Errorf("empty input should pass through, got %q altered=%v", got, altered)
	}
}
