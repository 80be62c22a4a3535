package api

import (
	"context"
	"net/http"
)

type RoleInput struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) ListRoles(ctx context.Context, p PageParams) (*Page[Role], error) {
	return query[*Page[Role]](ctx, c, "getAllRoles", p, tags(TagRoles), "roles", p.query())
}

func (c *Client) RolesMetadata(ctx context.Context) (*RolesMetadata, error) {
	return query[*RolesMetadata](ctx, c, "getAllRolesMetaData", nil, tags(TagRoles), "roles/metadata", nil)
}

func (c *Client) GetRole(ctx context.Context, id string) (*Role, error) {
	return query[*Role](ctx, c, "getRolById", id, tags(TagRoles), resource("roles", id), nil)
}

func (c *Client) CreateRole(ctx context.Context, in RoleInput) (*Role, error) {
	if err := validate(ctx, struct {
		Name string `json:"name" validate:"required"`
	}{in.Name}); err != nil {
		return nil, err
	}
	return mutate[*Role](ctx, c, tags(TagRoles), http.MethodPost, "roles", in)
}

func (c *Client) UpdateRole(ctx context.Context, id string, in RoleInput) (*Role, error) {
	return mutate[*Role](ctx, c, tags(TagRoles), http.MethodPatch, resource("roles", id), in)
}
