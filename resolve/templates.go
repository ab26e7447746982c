package resolve

import (
	"context"
	"fmt"

	"github.com/issueops/taskbridge/errors"
	"github.com/issueops/taskbridge/platform"
)

// TemplateFinder is the platform capability template and preset
// resolution needs. *platform.Client satisfies it.
type TemplateFinder interface {
	TemplateByName(ctx context.Context, org, name string) (*platform.Template, error)
	TemplateVersionPresets(ctx context.Context, versionID string) ([]platform.Preset, error)
}

// Template fetches the named template from the organization.
func Template(ctx context.Context, finder TemplateFinder, org, name string) (*platform.Template, error) {
	if name == "" {
		return nil, errors.Validation("template name must not be empty")
	}
	return finder.TemplateByName(ctx, org, name)
}

// Presets fetches the presets of the template's active version. An
// empty result is normal.
func Presets(ctx context.Context, finder TemplateFinder, versionID string) ([]platform.Preset, error) {
	if versionID == "" {
		return nil, errors.Validation("template version id must not be empty")
	}
	return finder.TemplateVersionPresets(ctx, versionID)
}

// SelectPreset picks the preset id a create request should carry.
//
// With no requested name the first preset marked default wins, in
// listed order. A list with no default yields no preset at all
// (ok == false); the template then runs on its own defaults. A
// requested name must match exactly: the first match wins, and no
// match is NOT_FOUND rather than a silent fallback.
func SelectPreset(presets []platform.Preset, requested string) (string, bool, error) {
	if requested == "" {
		for _, p := range presets {
			if p.IsDefault {
				return p.ID, true, nil
			}
		}
		return "", false, nil
	}

	for _, p := range presets {
		if p.Name == requested {
			return p.ID, true, nil
		}
	}
	return "", false, errors.NotFound(
		fmt.Sprintf("preset %q not found among the template's %d presets", requested, len(presets)))
}
