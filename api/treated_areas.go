package api

import (
	"context"
	"net/http"
	"time"
)

type TreatedAreaInput struct {
	Name string `json:"name" validate:"required"`
	Prices
}

type PromotionInput struct {
	TreatedAreaID int `json:"treatedAreaId" validate:"required"`
	Prices
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type PromotionUpdate struct {
	ID int `json:"id" validate:"required"`
	Prices
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (c *Client) ListTreatedAreas(ctx context.Context, p PageParams) (*Page[TreatedArea], error) {
	return query[*Page[TreatedArea]](ctx, c, "getAllAreasTratadas", p, tags(TagTreatedAreas), "treated-areas", p.query())
}

func (c *Client) TreatedAreaOptions(ctx context.Context, search string) ([]SelectOption, error) {
	args := map[string]any{"search": search, "paginated": false, "transformToSelectOptions": true}
	p := PageParams{Search: search}
	areas, err := query[[]TreatedArea](ctx, c, "getAllAreasTratadas", args, tags(TagTreatedAreas), "treated-areas",
		p.query().Bool("paginated", notPaginated()))
	if err != nil {
		return nil, err
	}
	return project(areas, func(a TreatedArea) SelectOption {
		return SelectOption{Value: a.ID.Int(), Label: a.Name}
	}), nil
}

func (c *Client) GetTreatedArea(ctx context.Context, id string) (*TreatedArea, error) {
	return query[*TreatedArea](ctx, c, "getAreaTratadaById", id, tags(TagTreatedAreas), resource("treated-areas", id), nil)
}

func (c *Client) CreateTreatedArea(ctx context.Context, in TreatedAreaInput) (*TreatedArea, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*TreatedArea](ctx, c, tags(TagTreatedAreas), http.MethodPost, "treated-areas", in)
}

func (c *Client) UpdateTreatedArea(ctx context.Context, id string, in TreatedAreaInput) (*TreatedArea, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*TreatedArea](ctx, c, tags(TagTreatedAreas), http.MethodPatch, resource("treated-areas", id), in)
}

func (c *Client) CreateMonthlyPromotion(ctx context.Context, in PromotionInput) (*MonthlyPromotion, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*MonthlyPromotion](ctx, c, tags(TagTreatedAreas), http.MethodPost,
		"treated-areas/create-monthly-promotion", in)
}

func (c *Client) UpdateMonthlyPromotion(ctx context.Context, in PromotionUpdate) (*MonthlyPromotion, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*MonthlyPromotion](ctx, c, tags(TagTreatedAreas), http.MethodPatch,
		"treated-areas/update-monthly-promotion", in)
}
