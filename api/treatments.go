package api

import (
	"context"
	"net/http"
	"time"

	khttp "github.com/kochabx/divina/core/net/http"
)

// TreatmentFilter narrows the treatment history of a customer by date.
type TreatmentFilter struct {
	PageParams
	StartDate time.Time `json:"startDate,omitzero"`
	FinalDate time.Time `json:"finalDate,omitzero"`
}

func (f TreatmentFilter) query() *khttp.QueryBuilder {
	return f.PageParams.query().
		Date("startDate", f.StartDate).
		Date("finalDate", f.FinalDate)
}

// TreatmentInput records a session; on update only the set fields are sent.
type TreatmentInput struct {
	Datetime            *time.Time `json:"datetime,omitempty"`
	TreatedArea         string     `json:"treatedArea,omitempty"`
	Session             string     `json:"session,omitempty"`
	InvoiceNumber       string     `json:"invoiceNumber,omitempty"`
	Amount              *float64   `json:"amount,omitempty"`
	SpecialistID        int        `json:"specialistId,omitempty"`
	DepilatoryMachineID int        `json:"depilatoryMachineId,omitempty"`
	SedeID              int        `json:"sedeId,omitempty"`
	IsComplete          *bool      `json:"isComplete,omitempty"`
}

func (c *Client) ListTreatments(ctx context.Context, customerID string, f TreatmentFilter) (*Page[Treatment], error) {
	args := struct {
		CustomerID string `json:"customerId"`
		TreatmentFilter
	}{customerID, f}
	return query[*Page[Treatment]](ctx, c, "getAllTreatments", args, tags(TagCustomerTreatment),
		resource("customers", customerID, "treatments"), f.query())
}

func (c *Client) GetTreatment(ctx context.Context, customerID, treatmentID string) (*Treatment, error) {
	args := map[string]string{"customerId": customerID, "treatmentId": treatmentID}
	return query[*Treatment](ctx, c, "getTreamentById", args, tags(TagCustomerTreatment),
		resource("customers", customerID, "treatments", treatmentID), nil)
}

func (c *Client) CreateTreatment(ctx context.Context, customerID string, in TreatmentInput) (*Treatment, error) {
	if err := validate(ctx, struct {
		Datetime     *time.Time `json:"datetime" validate:"required"`
		SpecialistID int        `json:"specialistId" validate:"required"`
		SedeID       int        `json:"sedeId" validate:"required"`
	}{in.Datetime, in.SpecialistID, in.SedeID}); err != nil {
		return nil, err
	}
	return mutate[*Treatment](ctx, c, tags(TagCustomerTreatment), http.MethodPost,
		resource("customers", customerID, "treatments"), in)
}

func (c *Client) UpdateTreatment(ctx context.Context, customerID, treatmentID string, in TreatmentInput) (*Treatment, error) {
	return mutate[*Treatment](ctx, c, tags(TagCustomerTreatment), http.MethodPatch,
		resource("customers", customerID, "treatments", treatmentID), in)
}
