package entity

import (
	"bizerp/internal/core/apperror"
	"bizerp/internal/core/id"
	"bizerp/internal/core/types"
)

// VendorParty is a trait for documents issued by or to a vendor.
type VendorParty struct {
	VendorID   id.Ref `db:"vendor_id" json:"vendor_id"`
	VendorName string `db:"vendor_name" json:"vendor_name"`
}

// ValidateVendor ensures the counterpart name is present.
func (v *VendorParty) ValidateVendor() error {
	if v.VendorName == "" {
		return apperror.NewValidation("vendor name is required").
			WithDetail("field", "vendor_name")
	}
	return nil
}

// CustomerParty is a trait for documents issued to a customer.
type CustomerParty struct {
	CustomerID   id.Ref `db:"customer_id" json:"customer_id"`
	CustomerName string `db:"customer_name" json:"customer_name"`
}

// ValidateCustomer ensures the counterpart name is present.
func (c *CustomerParty) ValidateCustomer() error {
	if c.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customer_name")
	}
	return nil
}

// Payable is a trait for documents that track settlement.
type Payable struct {
	AmountPaid types.Money `db:"amount_paid" json:"amount_paid"`
	BalanceDue types.Money `db:"balance_due" json:"balance_due"`
}

// ComputeBalance sets BalanceDue = total - AmountPaid.
// It runs once at insert time; generic updates do not recompute it.
func (p *Payable) ComputeBalance(total types.Money) {
	p.BalanceDue = types.BalanceDue(total, p.AmountPaid)
}

// Payment statuses shared by payable documents.
const (
	PaymentStatusPaid          = "paid"
	PaymentStatusPartiallyPaid = "partially_paid"
)

// ValidateLines ensures at least one line exists when required.
func ValidateLines(count int, required bool) error {
	if required && count == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "items")
	}
	return nil
}

// OrgScoped is a trait for rows owned by an organization.
type OrgScoped struct {
	OrganizationID id.ID `db:"organization_id" json:"organization_id"`
}

// SetOrganizationID stamps the owning organization.
func (o *OrgScoped) SetOrganizationID(orgID id.ID) {
	o.OrganizationID = orgID
}

// OrganizationSetter is implemented by entities carrying OrgScoped.
type OrganizationSetter interface {
	SetOrganizationID(orgID id.ID)
}
