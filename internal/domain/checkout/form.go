// Package checkout validates checkout input and orchestrates the multi-step
// order placement flow: order creation, conditional payment initiation, and
// cart clearing.
package checkout

import (
	"regexp"
	"strings"
)

// PaymentMethod enumerates the supported payment selections.
type PaymentMethod string

const (
	// PaymentCashOnDelivery finalizes the order immediately; payment happens
	// at the door.
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	// PaymentMpesa triggers an M-Pesa push payment on the customer's phone.
	PaymentMpesa PaymentMethod = "mpesa"
	// PaymentCard is not yet available and never reaches the gateway.
	PaymentCard PaymentMethod = "card"
)

// M-Pesa phone formats: local leading-zero 10-digit form, or the
// country-code-prefixed 12-digit form.
var (
	phoneLocal = regexp.MustCompile(`^0\d{9}$`)
	phoneIntl  = regexp.MustCompile(`^254\d{9}$`)
)

// Form is the checkout input collected from the customer.
type Form struct {
	ShippingAddress string
	BillingAddress  string
	// SameAsShipping reuses the shipping address for billing; the explicit
	// billing field is then ignored.
	SameAsShipping bool
	Method         PaymentMethod
	// MpesaPhone is required only when Method is PaymentMpesa.
	MpesaPhone string
}

// Validate runs the pure, local form checks and returns a field-keyed error
// map suitable for inline rendering. An empty map means the whole submission
// passed; validation never partially succeeds and never touches the network.
func (f Form) Validate() map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(f.ShippingAddress) == "" {
		fields["shipping_address"] = "Shipping address is required"
	}
	if !f.SameAsShipping && strings.TrimSpace(f.BillingAddress) == "" {
		fields["billing_address"] = "Billing address is required"
	}

	switch f.Method {
	case PaymentCashOnDelivery, PaymentCard:
	case PaymentMpesa:
		phone := strings.TrimSpace(f.MpesaPhone)
		if phone == "" {
			fields["phone"] = "M-Pesa phone number is required"
		} else if !phoneLocal.MatchString(phone) && !phoneIntl.MatchString(phone) {
			fields["phone"] = "Enter a valid M-Pesa phone number, e.g. 0712345678"
		}
	default:
		fields["payment_method"] = "Select a payment method"
	}

	return fields
}

// ResolvedShipping returns the shipping address to submit, trimmed.
func (f Form) ResolvedShipping() string {
	return strings.TrimSpace(f.ShippingAddress)
}

// ResolvedBilling returns the billing address to submit: the shipping
// address when SameAsShipping is set, else the explicit billing field.
// Both forms are trimmed, so a padded shipping address resolves to the
// same string for both fields.
func (f Form) ResolvedBilling() string {
	if f.SameAsShipping {
		return f.ResolvedShipping()
	}
	return strings.TrimSpace(f.BillingAddress)
}

// NormalizePhone rewrites the local leading-zero form to the country-code
// form required by the payment gateway. Already-normalized input passes
// through unchanged.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phoneLocal.MatchString(phone) {
		return "254" + phone[1:]
	}
	return phone
}
