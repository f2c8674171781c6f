package dropdowns

// Origin records where a Set came from.
type Origin string

const (
	OriginSheet    Origin = "sheet"
	OriginFallback Origin = "fallback"
)

// Set holds the four option lists. Each list is either the complete fetched
// column or the complete fallback sequence.
type Set struct {
	AcceptanceVia []string `json:"acceptanceVia" yaml:"acceptanceVia"`
	PaymentMode   []string `json:"paymentMode" yaml:"paymentMode"`
	ReasonStatus  []string `json:"reasonStatus" yaml:"reasonStatus"`
	HoldReason    []string `json:"holdReason" yaml:"holdReason"`
}

// Get returns the list for category.
func (s Set) Get(category Category) []string {
	switch category {
	case CategoryAcceptanceVia:
		return s.AcceptanceVia
	case CategoryPaymentMode:
		return s.PaymentMode
	case CategoryReasonStatus:
		return s.ReasonStatus
	case CategoryHoldReason:
		return s.HoldReason
	default:
		return nil
	}
}

func (s *Set) put(category Category, values []string) {
	switch category {
	case CategoryAcceptanceVia:
		s.AcceptanceVia = values
	case CategoryPaymentMode:
		s.PaymentMode = values
	case CategoryReasonStatus:
		s.ReasonStatus = values
	case CategoryHoldReason:
		s.HoldReason = values
	}
}

// Clone returns a deep copy so callers can hand the set out without sharing
// backing arrays.
func (s Set) Clone() Set {
	return Set{
		AcceptanceVia: cloneStrings(s.AcceptanceVia),
		PaymentMode:   cloneStrings(s.PaymentMode),
		ReasonStatus:  cloneStrings(s.ReasonStatus),
		HoldReason:    cloneStrings(s.HoldReason),
	}
}

// Extract builds a Set from raw sheet records. The first headerRows rows are
// skipped. For each category every non-empty cell in its column is kept in row
// order, including whitespace-only text; rows that are short or empty in that
// column are skipped, so the four lists are not row-aligned.
func Extract(records [][]string, headerRows int) Set {
	var set Set
	for _, category := range Categories() {
		set.put(category, column(records, category.Column(), headerRows))
	}
	return set
}

func column(records [][]string, index, skip int) []string {
	out := make([]string, 0, len(records))
	for i, row := range records {
		if i < skip || index >= len(row) {
			continue
		}
		if row[index] == "" {
			continue
		}
		out = append(out, row[index])
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
