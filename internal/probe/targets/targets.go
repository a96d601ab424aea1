package targets

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var targetsYAML []byte

// RegionKind classifies a target memory region.
type RegionKind string

const (
	// RegionRAM is volatile working memory.
	RegionRAM RegionKind = "ram"
	// RegionNVM is non-volatile memory that the flash loader programs.
	RegionNVM RegionKind = "nvm"
)

// Region describes one contiguous memory region of a target.
type Region struct {
	// Name is the region label from the chip description (e.g. "FLASH")
	Name string `yaml:"name"`

	// Start is the first address of the region
	Start uint32 `yaml:"start"`

	// Length is the region size in bytes
	Length uint32 `yaml:"length"`

	// Kind is the region classification (ram or nvm)
	Kind RegionKind `yaml:"kind"`
}

// End returns the first address past the region.
func (r Region) End() uint32 {
	return r.Start + r.Length
}

// Contains reports whether [addr, addr+length) lies inside the region.
func (r Region) Contains(addr uint32, length uint32) bool {
	return addr >= r.Start && addr+length <= r.End() && addr+length >= addr
}

// Target describes one chip from the built-in catalog.
type Target struct {
	// Name is the chip identifier (e.g. "nRF52840_xxAA")
	Name string `yaml:"name"`

	// Cores is the number of logical execution units on the target
	Cores int `yaml:"cores"`

	// Regions is the chip memory map
	Regions []Region `yaml:"memory"`
}

// NVM returns the non-volatile regions of the target in address order.
func (t Target) NVM() []Region {
	return t.regionsOfKind(RegionNVM)
}

// RAM returns the volatile regions of the target in address order.
func (t Target) RAM() []Region {
	return t.regionsOfKind(RegionRAM)
}

func (t Target) regionsOfKind(kind RegionKind) []Region {
	var out []Region
	for _, r := range t.Regions {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// String returns a human-readable representation of the target.
func (t Target) String() string {
	return fmt.Sprintf("%s (%d core(s), %d region(s))", t.Name, t.Cores, len(t.Regions))
}

// catalogContainer is for YAML unmarshaling
type catalogContainer struct {
	Targets []Target `yaml:"targets"`
}

// Catalog holds all chips known to the built-in target catalog.
type Catalog struct {
	targets []Target

	// index maps lowercased chip names to catalog entries
	index map[string]Target
}

var (
	globalCatalog     *Catalog
	globalCatalogOnce sync.Once
	globalCatalogErr  error
)

// Load loads the embedded target catalog. Safe to call multiple
// times; the catalog is parsed only once.
func Load() (*Catalog, error) {
	globalCatalogOnce.Do(func() {
		globalCatalog, globalCatalogErr = loadCatalogInternal()
	})
	return globalCatalog, globalCatalogErr
}

func loadCatalogInternal() (*Catalog, error) {
	var container catalogContainer
	if err := yaml.Unmarshal(targetsYAML, &container); err != nil {
		return nil, fmt.Errorf("failed to parse targets.yaml: %w", err)
	}

	c := &Catalog{
		targets: container.Targets,
		index:   make(map[string]Target),
	}
	for _, t := range container.Targets {
		c.index[strings.ToLower(t.Name)] = t
	}

	return c, nil
}

// Get retrieves a target by chip name. Matching is case-insensitive.
func (c *Catalog) Get(name string) (Target, bool) {
	t, ok := c.index[strings.ToLower(name)]
	return t, ok
}

// List returns all targets in the catalog.
func (c *Catalog) List() []Target {
	return c.targets
}

// Names returns all chip names in the catalog, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.targets))
	for _, t := range c.targets {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Get is a convenience lookup against the embedded catalog.
func Get(name string) (Target, bool) {
	c, err := Load()
	if err != nil {
		return Target{}, false
	}
	return c.Get(name)
}

// Default returns the generic target used when no chip is specified.
func Default() Target {
	t, ok := Get("generic")
	if !ok {
		// The embedded catalog always carries the generic entry;
		// fall back to a bare description if it was edited out.
		return Target{
			Name:  "generic",
			Cores: 1,
			Regions: []Region{
				{Name: "RAM", Start: 0x2000_0000, Length: 0x4_0000, Kind: RegionRAM},
				{Name: "FLASH", Start: 0x0000_0000, Length: 0x10_0000, Kind: RegionNVM},
			},
		}
	}
	return t
}
