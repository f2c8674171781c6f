package orderstatus

import (
	"errors"
	"fmt"
)

// ErrUnknownField is returned when a wire name does not match a FieldName.
var ErrUnknownField = errors.New("orderstatus: unknown field")

// FieldName enumerates every key the component reads or writes.
type FieldName string

const (
	FieldQuotationNumber FieldName = "orderStatusQuotationNumber"
	FieldOrderStatus     FieldName = "orderStatus"

	FieldAcceptanceVia  FieldName = "acceptanceVia"
	FieldPaymentMode    FieldName = "paymentMode"
	FieldPaymentTerms   FieldName = "paymentTerms"
	FieldOrderVideo     FieldName = "orderVideo"
	FieldAcceptanceFile FieldName = "acceptanceFile"
	FieldOrderRemark    FieldName = "orderRemark"

	FieldApologyVideo FieldName = "apologyVideo"
	FieldReasonStatus FieldName = "reasonStatus"
	FieldReasonRemark FieldName = "reasonRemark"

	FieldHoldReason  FieldName = "holdReason"
	FieldHoldingDate FieldName = "holdingDate"
	FieldHoldRemark  FieldName = "holdRemark"
)

var fieldBranches = map[FieldName]Status{
	FieldQuotationNumber: StatusUnset,
	FieldOrderStatus:     StatusUnset,
	FieldAcceptanceVia:   StatusYes,
	FieldPaymentMode:     StatusYes,
	FieldPaymentTerms:    StatusYes,
	FieldOrderVideo:      StatusYes,
	FieldAcceptanceFile:  StatusYes,
	FieldOrderRemark:     StatusYes,
	FieldApologyVideo:    StatusNo,
	FieldReasonStatus:    StatusNo,
	FieldReasonRemark:    StatusNo,
	FieldHoldReason:      StatusHold,
	FieldHoldingDate:     StatusHold,
	FieldHoldRemark:      StatusHold,
}

// ParseFieldName maps a wire name onto a FieldName.
func ParseFieldName(raw string) (FieldName, error) {
	name := FieldName(raw)
	if _, ok := fieldBranches[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
	return name, nil
}

// Branch returns the status whose group holds the field. The always visible
// fields (quotation number and the status selector) belong to no branch and
// report StatusUnset.
func (f FieldName) Branch() Status {
	return fieldBranches[f]
}

func (f FieldName) String() string { return string(f) }
