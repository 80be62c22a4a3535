package api

import (
	"context"
	"net/http"

	khttp "github.com/kochabx/divina/core/net/http"
)

type CustomerFilter struct {
	PageParams
	SedeID   string `json:"sedeId,omitempty"`
	StatusID string `json:"statusId,omitempty"`
}

func (f CustomerFilter) query() *khttp.QueryBuilder {
	return f.PageParams.query().
		String("sedeId", f.SedeID).
		String("statusId", f.StatusID)
}

// InitialTreatment is the treatment package sold when a customer is created.
type InitialTreatment struct {
	TreatedAreaID int     `json:"treatedAreaId" validate:"required"`
	TotalSessions int     `json:"totalSessions" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"gte=0"`
}

// CustomerInput creates a customer; on update only the set fields are sent.
type CustomerInput struct {
	Name      string            `json:"name,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	SedeID    int               `json:"sedeId,omitempty"`
	Email     string            `json:"email,omitempty" validate:"omitempty,email"`
	BirthDate string            `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Cedula    string            `json:"cedula,omitempty"`
	Phones    []string          `json:"phones,omitempty"`
	SkinType  string            `json:"skinType,omitempty"`
	HairColor string            `json:"hairColor,omitempty"`
	Address   *Address          `json:"address,omitempty"`
	Treatment *InitialTreatment `json:"treatment,omitempty"`
}

func (c *Client) ListCustomers(ctx context.Context, f CustomerFilter) (*Page[Customer], error) {
	return query[*Page[Customer]](ctx, c, "getAllCustomers", f, tags(TagCustomers), "customers", f.query())
}

func (c *Client) CustomersMetadata(ctx context.Context) (*CustomersMetadata, error) {
	return query[*CustomersMetadata](ctx, c, "getAllCustomersMetadata", nil, tags(TagCustomers), "customers/metadata", nil)
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return query[*Customer](ctx, c, "getCustomerById", id, tags(TagCustomers), resource("customers", id), nil)
}

func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	if err := validate(ctx, struct {
		CustomerInput
		Name     string `json:"name" validate:"required"`
		LastName string `json:"lastName" validate:"required"`
		Cedula   string `json:"cedula" validate:"required"`
	}{in, in.Name, in.LastName, in.Cedula}); err != nil {
		return nil, err
	}
	return mutate[*Customer](ctx, c, tags(TagCustomers), http.MethodPost, "customers", in)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*Customer, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*Customer](ctx, c, tags(TagCustomers), http.MethodPatch, resource("customers", id), in)
}
