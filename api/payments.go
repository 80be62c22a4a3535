package api

import (
	"context"
	"net/http"
	"time"

	khttp "github.com/kochabx/divina/core/net/http"
)

type PaymentFilter struct {
	PageParams
	TreatmentID string `json:"treatmentId,omitempty"`
}

func (f PaymentFilter) query() *khttp.QueryBuilder {
	return f.PageParams.query().String("treatmentId", f.TreatmentID)
}

// PaymentInput records a payment; on update only the set fields are sent.
type PaymentInput struct {
	Amount          float64    `json:"amount,omitempty" validate:"gte=0"`
	Description     string     `json:"description,omitempty"`
	DateOfPayment   *time.Time `json:"dateOfPayment,omitempty"`
	SedeID          int        `json:"sedeId,omitempty"`
	PaymentMethodID int        `json:"paymentMethodId,omitempty"`
	UserReceiverID  int        `json:"userReceiverId,omitempty"`
}

// paymentTags are invalidated by payment mutations. Treatments embed their
// payments and balance, so they are refetched too.
var paymentTags = tags(TagCustomerPayment, TagCustomerTreatment)

func (c *Client) PaymentMethods(ctx context.Context) ([]Named, error) {
	return query[[]Named](ctx, c, "getAllPaymentMethods", nil, nil, "customers/payment-methods", nil)
}

func (c *Client) PaymentMethodOptions(ctx context.Context) ([]SelectOption, error) {
	methods, err := c.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	return NamedOptions(methods), nil
}

func (c *Client) ListPayments(ctx context.Context, customerID string, f PaymentFilter) (*Page[Payment], error) {
	args := struct {
		CustomerID string `json:"customerId"`
		PaymentFilter
	}{customerID, f}
	return query[*Page[Payment]](ctx, c, "getAllPayments", args, tags(TagCustomerPayment),
		resource("customers", customerID, "payments"), f.query())
}

func (c *Client) GetPayment(ctx context.Context, customerID, paymentID string) (*Payment, error) {
	args := map[string]string{"customerId": customerID, "paymentId": paymentID}
	return query[*Payment](ctx, c, "getPaymentById", args, tags(TagCustomerPayment),
		resource("customers", customerID, "payments", paymentID), nil)
}

func (c *Client) CreatePayment(ctx context.Context, treatmentID string, in PaymentInput) (*Payment, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*Payment](ctx, c, paymentTags, http.MethodPost,
		resource("customers", "treatments", treatmentID, "payments"), in)
}

func (c *Client) UpdatePayment(ctx context.Context, treatmentID, paymentID string, in PaymentInput) (*Payment, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*Payment](ctx, c, paymentTags, http.MethodPatch,
		resource("customers", "treatments", treatmentID, "payments", paymentID), in)
}
