package api

import (
	"context"
	"net/http"

	khttp "github.com/kochabx/divina/core/net/http"
)

// UserFilter narrows the user list. Zero values are not sent.
type UserFilter struct {
	PageParams
	SedeID   string `json:"sedeId,omitempty"`
	StatusID int    `json:"statusId,omitempty"`
	RolID    int    `json:"rolId,omitempty"`
}

func (f UserFilter) query() *khttp.QueryBuilder {
	return f.PageParams.query().
		String("sedeId", f.SedeID).
		Int("statusId", f.StatusID).
		Int("rolId", f.RolID)
}

type CreateUserInput struct {
	Name     string `json:"name" validate:"required"`
	LastName string `json:"lastName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	RolID    int    `json:"rolId" validate:"required"`
}

type UpdateUserInput struct {
	Name     string `json:"name,omitempty"`
	LastName string `json:"lastName,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	RolID    int    `json:"rolId,omitempty"`
}

type PasswordInput struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (c *Client) ListUsers(ctx context.Context, f UserFilter) (*Page[User], error) {
	return query[*Page[User]](ctx, c, "getAllUsers", f, tags(TagUsers), "users", f.query())
}

// UserOptions lists every user matching f as "name lastName" options.
func (c *Client) UserOptions(ctx context.Context, f UserFilter) ([]SelectOption, error) {
	args := struct {
		UserFilter
		Options bool `json:"transformToSelectOptions"`
	}{f, true}
	users, err := query[[]User](ctx, c, "getAllUsers", args, tags(TagUsers), "users",
		f.query().Bool("paginated", notPaginated()))
	if err != nil {
		return nil, err
	}
	return project(users, func(u User) SelectOption {
		return SelectOption{Value: u.ID.Int(), Label: u.Name + " " + u.LastName}
	}), nil
}

func (c *Client) UsersMetadata(ctx context.Context) (*UsersMetadata, error) {
	return query[*UsersMetadata](ctx, c, "getAllUsersMetaData", nil, tags(TagUsers), "users/metadata", nil)
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return query[*User](ctx, c, "getUserById", id, tags(TagUsers), resource("users", id), nil)
}

// UserRoles lists the roles a user can be given.
func (c *Client) UserRoles(ctx context.Context) ([]Named, error) {
	return query[[]Named](ctx, c, "getUserRoles", nil, tags(TagUsers), "users/roles", nil)
}

func (c *Client) UserStatuses(ctx context.Context) ([]Named, error) {
	return query[[]Named](ctx, c, "getUserStatuses", nil, tags(TagUsers), "users/statuses", nil)
}

func (c *Client) CreateUser(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*User](ctx, c, tags(TagUsers), http.MethodPost, "users", in)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*User, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*User](ctx, c, tags(TagUsers), http.MethodPatch, resource("users", id), in)
}

// UpdateUserPassword changes the password of a user. Cached data is unaffected.
func (c *Client) UpdateUserPassword(ctx context.Context, id string, in PasswordInput) (*Message, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	return mutate[*Message](ctx, c, nil, http.MethodPatch, resource("users", id, "password"), in)
}

func (c *Client) DisableUser(ctx context.Context, id string) (*Message, error) {
	return mutate[*Message](ctx, c, tags(TagUsers), http.MethodDelete, resource("users", id), nil)
}

// NamedOptions projects catalog entries to options.
func NamedOptions(items []Named) []SelectOption {
	return project(items, func(n Named) SelectOption {
		return SelectOption{Value: n.ID.Int(), Label: n.Name}
	})
}
