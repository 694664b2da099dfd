package invoice

import "github.com/shopspring/decimal"

// ApprovalPolicy decides the status of a new invoice from the owner's
// running APPROVED total. The limit is fixed at construction.
type ApprovalPolicy struct {
	limit decimal.Decimal
}

// NewApprovalPolicy creates a policy bound to limit
func NewApprovalPolicy(limit decimal.Decimal) ApprovalPolicy {
	return ApprovalPolicy{limit: limit}
}

// Limit returns the configured approval limit
func (p ApprovalPolicy) Limit() decimal.Decimal {
	return p.limit
}

// Decide applies the policy limit
func (p ApprovalPolicy) Decide(currentApprovedTotal, invoiceAmount decimal.Decimal) Status {
	return Decide(currentApprovedTotal, invoiceAmount, p.limit)
}

// Decide rejects when currentTotal + amount is strictly greater than
// limit. Reaching the limit exactly is approved.
func Decide(currentTotal, amount, limit decimal.Decimal) Status {
	if currentTotal.Add(amount).GreaterThan(limit) {
		return StatusRejected
	}
	return StatusApproved
}
