package marketapi

import (
	"context"
	"net/http"
)

// ModelInput is the payload for creating or updating a truck model.
type ModelInput struct {
	TruckName string
	ModelName string
	Image     *Upload
}

func (in ModelInput) form() *form {
	f := newForm()
	f.set("truckName", in.TruckName)
	f.set("model", in.ModelName)
	if in.Image != nil {
		image := *in.Image
		image.Field = "image"
		f.add(image)
	}
	return f
}

// ListModels returns the truck model catalog.
func (c *Client) ListModels(ctx context.Context) ([]TruckModel, error) {
	models, _, err := listOf[TruckModel](ctx, c, call{
		resource: "models",
		method:   http.MethodGet,
		path:     "/models",
		fallback: "Failed to fetch models",
	}, "models")
	return models, err
}

// CreateModel adds a truck model.
func (c *Client) CreateModel(ctx context.Context, input ModelInput) (TruckModel, error) {
	req := call{resource: "models", method: http.MethodPost, path: "/models", fallback: "Failed to add model"}
	input.form().attach(&req)
	var model TruckModel
	err := c.doInto(ctx, req, &model, "model")
	return model, err
}

// UpdateModel replaces a truck model. Multipart bodies cannot travel on PUT
// through the upstream framework, so the call is a POST with a method
// override header.
func (c *Client) UpdateModel(ctx context.Context, id string, input ModelInput) (TruckModel, error) {
	req := call{
		resource: "models",
		method:   http.MethodPost,
		path:     "/models/" + pathID(id),
		header:   http.Header{"X-Http-Method-Override": {http.MethodPut}},
		fallback: "Failed to update model",
	}
	input.form().attach(&req)
	var model TruckModel
	err := c.doInto(ctx, req, &model, "model")
	return model, err
}

// DeleteModel removes one truck model.
func (c *Client) DeleteModel(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		resource: "models",
		method:   http.MethodDelete,
		path:     "/models/" + pathID(id),
		fallback: "Failed to delete model",
	})
	return err
}

// DeleteAllModels empties the truck model catalog.
func (c *Client) DeleteAllModels(ctx context.Context) error {
	_, err := c.do(ctx, call{
		resource: "models",
		method:   http.MethodDelete,
		path:     "/models/delete-all",
		fallback: "Failed to delete all models",
	})
	return err
}

// BannerInput is the payload for CreateBanner.
type BannerInput struct {
	Title string
	Link  string
	Image *Upload
}

// ListBanners returns banners in their stored order.
func (c *Client) ListBanners(ctx context.Context) ([]Banner, error) {
	banners, _, err := listOf[Banner](ctx, c, call{
		resource: "banners",
		method:   http.MethodGet,
		path:     "/banners",
		fallback: "Failed to fetch banners",
	}, "banners")
	if err != nil {
		return nil, err
	}
	SortBanners(banners)
	return banners, nil
}

// CreateBanner uploads a new banner.
func (c *Client) CreateBanner(ctx context.Context, input BannerInput) (Banner, error) {
	f := newForm()
	f.set("title", input.Title)
	f.set("link", input.Link)
	if input.Image != nil {
		image := *input.Image
		image.Field = "image"
		f.add(image)
	}
	req := call{resource: "banners", method: http.MethodPost, path: "/banners", fallback: "Failed to add banner"}
	f.attach(&req)
	var banner Banner
	err := c.doInto(ctx, req, &banner, "banner")
	return banner, err
}

// DeleteBanner removes a banner.
func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	_, err := c.do(ctx, call{
		resource: "banners",
		method:   http.MethodDelete,
		path:     "/banners/" + pathID(id),
		fallback: "Failed to delete banner",
	})
	return err
}

// UpdateBannerOrder stores ids as the new display order.
func (c *Client) UpdateBannerOrder(ctx context.Context, ids []ID) error {
	if ids == nil {
		ids = []ID{}
	}
	req, err := jsonCall("banners", http.MethodPost, "/banners/update-order", map[string][]ID{"order": ids}, "Failed to update order")
	if err != nil {
		return err
	}
	_, err = c.do(ctx, req)
	return err
}
