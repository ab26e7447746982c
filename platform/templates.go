package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// TemplateByName fetches a template by organization and name.
func (c *Client) TemplateByName(ctx context.Context, org, name string) (*Template, error) {
	path := fmt.Sprintf("/organizations/%s/templates/%s",
		url.PathEscape(org), url.PathEscape(name))

	var tpl Template
	if err := c.do(ctx, http.MethodGet, path, nil, &tpl); err != nil {
		return nil, err
	}
	if err := tpl.Validate(); err != nil {
		return nil, malformed(http.MethodGet, path, err)
	}
	return &tpl, nil
}

// TemplateVersionPresets fetches the presets attached to a template
// version. An empty list is a normal outcome; many versions define no
// presets.
func (c *Client) TemplateVersionPresets(ctx context.Context, versionID string) ([]Preset, error) {
	path := fmt.Sprintf("/templateversions/%s/presets", url.PathEscape(versionID))

	var presets []Preset
	if err := c.do(ctx, http.MethodGet, path, nil, &presets); err != nil {
		return nil, err
	}
	for i := range presets {
		if err := presets[i].Validate(); err != nil {
			return nil, malformed(http.MethodGet, path, err)
		}
	}
	return presets, nil
}
