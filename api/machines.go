package api

import (
	"context"
	"net/http"
	"strconv"

	khttp "github.com/kochabx/divina/core/net/http"
)

// MachineFilter narrows the machine list. A nil SedeID is not sent; zero is.
type MachineFilter struct {
	PageParams
	SedeID *int `json:"sedeId,omitempty"`
}

func (f MachineFilter) query() *khttp.QueryBuilder {
	q := f.PageParams.query()
	if f.SedeID != nil {
		q.String("sedeId", strconv.Itoa(*f.SedeID))
	}
	return q
}

type MachineInput struct {
	Name   string `json:"name,omitempty" validate:"required"`
	SedeID int    `json:"sedeId,omitempty"`
}

func (c *Client) ListMachines(ctx context.Context, f MachineFilter) (*Page[DepilatoryMachine], error) {
	return query[*Page[DepilatoryMachine]](ctx, c, "getAllMachines", f, tags(TagMachines), "depilatory-machines", f.query())
}

func (c *Client) MachineOptions(ctx context.Context, f MachineFilter) ([]SelectOption, error) {
	args := struct {
		MachineFilter
		Options bool `json:"transformToSelectOptions"`
	}{f, true}
	machines, err := query[[]DepilatoryMachine](ctx, c, "getAllMachines", args, tags(TagMachines), "depilatory-machines",
		f.query().Bool("paginated", notPaginated()))
	if err != nil {
		return nil, err
	}
	return project(machines, func(m DepilatoryMachine) SelectOption {
		return SelectOption{Value: m.ID.Int(), Label: m.Name}
	}), nil
}

func (c *Client) GetMachine(ctx context.Context, id string) (*DepilatoryMachine, error) {
	return query[*DepilatoryMachine](ctx, c, "getMachineById", id, tags(TagMachines), resource("depilatory-machines", id), nil)
}

func (c *Client) CreateMachine(ctx context.Context, in MachineInput) (*DepilatoryMachine, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*DepilatoryMachine](ctx, c, tags(TagMachines), http.MethodPost, "depilatory-machines", in)
}

func (c *Client) UpdateMachine(ctx context.Context, id string, in MachineInput) (*DepilatoryMachine, error) {
	return mutate[*DepilatoryMachine](ctx, c, tags(TagMachines), http.MethodPatch, resource("depilatory-machines", id), in)
}
