package orderstatus

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seededValues() *Values {
	return NewValues(map[FieldName]Value{
		FieldQuotationNumber: Text("Q-1042"),
		FieldOrderStatus:     Text("yes"),
		FieldAcceptanceVia:   Text("email"),
		FieldPaymentMode:     Text("cash"),
		FieldOrderVideo:      File(FileHandle{Name: "order.mp4"}),
		FieldReasonStatus:    Text("price"),
		FieldHoldingDate:     Text("2026-11-01"),
	})
}

func keys(values map[FieldName]Value) map[FieldName]string {
	out := make(map[FieldName]string, len(values))
	for field, value := range values {
		out[field] = value.Text()
	}
	return out
}

func TestCollect_KeepHiddenReturnsEverything(t *testing.T) {
	got := keys(Collect(seededValues(), StatusYes, KeepHidden))
	want := map[FieldName]string{
		FieldQuotationNumber: "Q-1042",
		FieldOrderStatus:     "yes",
		FieldAcceptanceVia:   "email",
		FieldPaymentMode:     "cash",
		FieldOrderVideo:      "order.mp4",
		FieldReasonStatus:    "price",
		FieldHoldingDate:     "2026-11-01",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collect mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_DropHiddenKeepsSelectedBranch(t *testing.T) {
	got := keys(Collect(seededValues(), StatusYes, DropHidden))
	want := map[FieldName]string{
		FieldQuotationNumber: "Q-1042",
		FieldOrderStatus:     "yes",
		FieldAcceptanceVia:   "email",
		FieldPaymentMode:     "cash",
		FieldOrderVideo:      "order.mp4",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collect mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingRequired(t *testing.T) {
	data := seededValues()

	if diff := cmp.Diff([]FieldName{FieldPaymentTerms}, MissingRequired(data, StatusYes)); diff != "" {
		t.Fatalf("yes missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]FieldName{FieldHoldReason}, MissingRequired(data, StatusHold)); diff != "" {
		t.Fatalf("hold missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]FieldName{FieldOrderStatus}, MissingRequired(data, StatusUnset)); diff != "" {
		t.Fatalf("unset missing mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingRequired_RemarksAreOptional(t *testing.T) {
	lost := NewValues(map[FieldName]Value{
		FieldQuotationNumber: Text("Q-7"),
		FieldReasonStatus:    Text("price"),
	})
	if got := MissingRequired(lost, StatusNo); len(got) != 0 {
		t.Fatalf("lost order without remark should be complete, missing %v", got)
	}

	held := NewValues(map[FieldName]Value{
		FieldQuotationNumber: Text("Q-7"),
		FieldHoldReason:      Text("budget"),
		FieldHoldingDate:     Text("2026-11-01"),
	})
	if got := MissingRequired(held, StatusHold); len(got) != 0 {
		t.Fatalf("held order without remark should be complete, missing %v", got)
	}
}

func TestMissingRequired_QuotationNumberAlwaysRequired(t *testing.T) {
	data := NewValues(map[FieldName]Value{
		FieldQuotationNumber: Text("   "),
		FieldReasonStatus:    Text("price"),
	})
	if diff := cmp.Diff([]FieldName{FieldQuotationNumber}, MissingRequired(data, StatusNo)); diff != "" {
		t.Fatalf("no missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]FieldName{FieldQuotationNumber, FieldOrderStatus}, MissingRequired(NewValues(nil), StatusUnset)); diff != "" {
		t.Fatalf("unset missing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSubmitPolicy(t *testing.T) {
	for raw, want := range map[string]SubmitPolicy{"": KeepHidden, "keep": KeepHidden, " DROP ": DropHidden} {
		got, err := ParseSubmitPolicy(raw)
		if err != nil || got != want {
			t.Fatalf("ParseSubmitPolicy(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseSubmitPolicy("clear"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
