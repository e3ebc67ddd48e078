package enums

import "testing"

func TestParseMessageLevel(t *testing.T) {
	lvl, err := ParseMessageLevel("warning")
	if err != nil || lvl != MessageLevelWarning {
		t.Fatalf("expected warning, got %q err=%v", lvl, err)
	}
	if _, err := ParseMessageLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if MessageLevel("loud").IsValid() {
		t.Fatalf("unknown level should be invalid")
	}
}

func TestParseOrderPaidFilter(t *testing.T) {
	f, err := ParseOrderPaidFilter("")
	if err != nil || f != OrderPaidFilterAll {
		t.Fatalf("blank filter should mean all, got %q err=%v", f, err)
	}
	f, err = ParseOrderPaidFilter("unpaid")
	if err != nil || f != OrderPaidFilterUnpaid {
		t.Fatalf("expected unpaid, got %q err=%v", f, err)
	}
	if _, err := ParseOrderPaidFilter("maybe"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}
