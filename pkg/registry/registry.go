package registry

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/logging"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/Serenacula/templative/pkg/utils"
	"github.com/tidwall/jsonc"
)

// CurrentVersion is the only registry schema this build reads
const CurrentVersion = 1

// Registry is the in-memory view of templates.json
type Registry struct {
	path      string
	Version   int              `json:"version"`
	Templates []types.Template `json:"templates"`
}

// New creates an empty registry that will be saved to path
func New(path string) *Registry {
	return &Registry{
		path:      path,
		Version:   CurrentVersion,
		Templates: []types.Template{},
	}
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	logger := logging.GetLogger("registry")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No registry file, starting empty")
			return New(path), nil
		}
		return nil, errors.Wrapf(err, errors.ErrRegistryLoad, "failed to read registry %s", path)
	}

	r := &Registry{path: path}
	if err := json.Unmarshal(jsonc.ToJSON(data), r); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistryLoad, "failed to parse registry %s", path)
	}
	if r.Version != CurrentVersion {
		return nil, errors.Newf(errors.ErrUnsupportedRegistryVersion,
			"registry version %d is not supported (expected %d)", r.Version, CurrentVersion).
			WithDetail("path", path)
	}
	if r.Templates == nil {
		r.Templates = []types.Template{}
	}

	seen := make(map[string]bool, len(r.Templates))
	for _, t := range r.Templates {
		if seen[t.Name] {
			return nil, errors.Newf(errors.ErrRegistryLoad,
				"registry %s lists template %q more than once", path, t.Name)
		}
		seen[t.Name] = true
	}

	logger.Debug().Str("path", path).Int("templates", len(r.Templates)).Msg("Registry loaded")
	return r, nil
}

// Path returns the file the registry saves to
func (r *Registry) Path() string {
	return r.path
}

// Save writes the registry atomically
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistrySave, "failed to serialize registry")
	}
	data = append(data, '\n')
	if err := utils.WriteFileAtomic(r.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrRegistrySave, "failed to write registry %s", r.path)
	}
	return nil
}

func (r *Registry) index(name string) int {
	for i := range r.Templates {
		if r.Templates[i].Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether a template with name is registered
func (r *Registry) Has(name string) bool {
	return r.index(name) >= 0
}

// Get returns a copy of the named template
func (r *Registry) Get(name string) (types.Template, error) {
	i := r.index(name)
	if i < 0 {
		return types.Template{}, errors.TemplateNotFound(name)
	}
	return r.Templates[i].Clone(), nil
}

// Add registers a new template
func (r *Registry) Add(t types.Template) error {
	if t.Name == "" {
		return errors.New(errors.ErrInvalidInput, "template name cannot be empty")
	}
	if r.Has(t.Name) {
		return errors.TemplateExists(t.Name)
	}
	r.Templates = append(r.Templates, t.Clone())
	return nil
}

// Remove deletes the named template
func (r *Registry) Remove(name string) error {
	i := r.index(name)
	if i < 0 {
		return errors.TemplateNotFound(name)
	}
	r.Templates = append(r.Templates[:i], r.Templates[i+1:]...)
	return nil
}

// Replace swaps the template stored under name for t. t may carry a new
// name, which must not collide with another template.
func (r *Registry) Replace(name string, t types.Template) error {
	i := r.index(name)
	if i < 0 {
		return errors.TemplateNotFound(name)
	}
	if t.Name == "" {
		return errors.New(errors.ErrInvalidInput, "template name cannot be empty")
	}
	if t.Name != name && r.Has(t.Name) {
		return errors.TemplateExists(t.Name)
	}
	r.Templates[i] = t.Clone()
	return nil
}

// Sorted returns copies of all templates ordered by name
func (r *Registry) Sorted() []types.Template {
	out := make([]types.Template, 0, len(r.Templates))
	for _, t := range r.Templates {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Templates))
	for _, t := range r.Templates {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
