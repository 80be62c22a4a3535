package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	khttp "github.com/kochabx/divina/core/net/http"
)

// File is an uploaded image.
type File struct {
	Name    string
	Content io.Reader
}

// SedeInput is sent as multipart form data. Image is optional.
type SedeInput struct {
	Name  string `validate:"required"`
	Image *File
}

func (in SedeInput) encode() (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	if err := w.WriteField("name", in.Name); err != nil {
		return nil, "", err
	}
	if in.Image != nil && in.Image.Content != nil {
		part, err := w.CreateFormFile("image", in.Image.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, in.Image.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) ListSedes(ctx context.Context) ([]Sede, error) {
	return query[[]Sede](ctx, c, "getAllSedes", nil, tags(TagSedes), "sedes", nil)
}

// SedeOptions projects the cached sede list to options.
func (c *Client) SedeOptions(ctx context.Context) ([]SelectOption, error) {
	sedes, err := c.ListSedes(ctx)
	if err != nil {
		return nil, err
	}
	return project(sedes, func(s Sede) SelectOption {
		return SelectOption{Value: s.ID.Int(), Label: s.Name}
	}), nil
}

func (c *Client) GetSede(ctx context.Context, id string) (*Sede, error) {
	return query[*Sede](ctx, c, "getSedeById", id, tags(TagSedes), resource("sedes", id), nil)
}

func (c *Client) CreateSede(ctx context.Context, in SedeInput) (*Sede, error) {
	return c.sendSede(ctx, http.MethodPost, "sedes", in)
}

func (c *Client) UpdateSede(ctx context.Context, id string, in SedeInput) (*Sede, error) {
	return c.sendSede(ctx, http.MethodPatch, resource("sedes", id), in)
}

func (c *Client) sendSede(ctx context.Context, method, p string, in SedeInput) (*Sede, error) {
	if err := validate(ctx, in); err != nil {
		return nil, err
	}
	body, contentType, err := in.encode()
	if err != nil {
		return nil, err
	}
	return mutate[*Sede](ctx, c, tags(TagSedes), method, p, body,
		khttp.WithHeader(map[string]string{khttp.HeaderContentType: contentType}))
}
