package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Content is the declarative skill data loaded from YAML: the skill
// definitions and the enemy-type → skill ID mapping.
type Content struct {
	Skills    []*Definition       `yaml:"skills"`
	SkillSets map[string][]string `yaml:"skillsets"`
}

// merge appends other into c. Later skill sets replace earlier ones with the same key.
func (c *Content) merge(other *Content) {
	c.Skills = append(c.Skills, other.Skills...)
	if len(other.SkillSets) == 0 {
		return
	}
	if c.SkillSets == nil {
		c.SkillSets = make(map[string][]string, len(other.SkillSets))
	}
	for k, v := range other.SkillSets {
		c.SkillSets[k] = v
	}
}

// LoadContentFromBytes parses one skill content document.
//
// Postcondition: Returns the parsed Content or an error; unknown YAML keys are rejected.
func LoadContentFromBytes(data []byte) (*Content, error) {
	var content Content
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&content); err != nil {
		return nil, fmt.Errorf("parsing skill YAML: %w", err)
	}
	return &content, nil
}

// LoadDirectory reads every *.yaml file in dir in lexicographic order and
// merges them into one Content.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the merged Content, or an error on the first read or parse failure.
func LoadDirectory(dir string) (*Content, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("skill.LoadDirectory: reading %q: %w", dir, err)
	}
	merged := &Content{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("skill.LoadDirectory: reading %q: %w", path, err)
		}
		content, err := LoadContentFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("skill.LoadDirectory: %q: %w", path, err)
		}
		merged.merge(content)
	}
	return merged, nil
}

// Catalog maps skill IDs to immutable definitions and hands out fresh
// per-actor instances. It is populated exactly once by Initialize.
//
// Catalog is safe for concurrent reads after Initialize returns.
type Catalog struct {
	logger      *zap.Logger
	initialized bool
	defs        map[string]*Definition
	skillSets   map[string][]string
}

// NewCatalog returns an empty, uninitialized Catalog.
//
// Precondition: logger must be non-nil.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		panic("skill.NewCatalog: logger must not be nil")
	}
	return &Catalog{
		logger:    logger,
		defs:      make(map[string]*Definition),
		skillSets: make(map[string][]string),
	}
}

// Initialize populates the catalog from content. Calls after the first
// successful one are no-ops.
//
// Precondition: content must not be nil.
// Postcondition: on error the catalog is left empty and uninitialized; a
// skill set referencing an unknown skill and duplicate skill IDs are errors.
func (c *Catalog) Initialize(content *Content) error {
	if c.initialized {
		return nil
	}
	if content == nil {
		return fmt.Errorf("skill.Catalog.Initialize: content must not be nil")
	}

	defs := make(map[string]*Definition, len(content.Skills))
	for _, d := range content.Skills {
		if d == nil {
			continue
		}
		if err := d.Validate(); err != nil {
			return fmt.Errorf("skill.Catalog.Initialize: %w", err)
		}
		if _, dup := defs[d.ID]; dup {
			return fmt.Errorf("skill.Catalog.Initialize: duplicate skill ID %q", d.ID)
		}
		defs[d.ID] = d
	}

	sets := make(map[string][]string, len(content.SkillSets))
	for enemyType, ids := range content.SkillSets {
		for _, id := range ids {
			if _, ok := defs[id]; !ok {
				return fmt.Errorf("skill.Catalog.Initialize: skill set %q references unknown skill %q", enemyType, id)
			}
		}
		sets[strings.ToLower(enemyType)] = append([]string(nil), ids...)
	}

	c.defs = defs
	c.skillSets = sets
	c.initialized = true
	c.logger.Info("skill catalog initialized",
		zap.Int("skills", len(defs)),
		zap.Int("skill_sets", len(sets)),
	)
	return nil
}

// Initialized reports whether Initialize has completed successfully.
func (c *Catalog) Initialized() bool { return c.initialized }

// Len returns the number of registered definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// Definition returns the template for id.
func (c *Catalog) Definition(id string) (*Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// All returns every definition ordered by ID.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.defs))
	for _, d := range c.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Instance returns a fresh Instance of skill id.
//
// Postcondition: each call returns a distinct Instance with Cooldown() == 0;
// returns (nil, false) when id is unknown.
func (c *Catalog) Instance(id string) (*Instance, bool) {
	d, ok := c.defs[id]
	if !ok {
		return nil, false
	}
	return NewInstance(d), true
}

// InstancesFor returns fresh instances of every skill mapped to enemyType
// (case-insensitive), in declaration order.
//
// Postcondition: returns a non-nil slice, empty for unknown enemy types.
func (c *Catalog) InstancesFor(enemyType string) []*Instance {
	ids := c.skillSets[strings.ToLower(enemyType)]
	out := make([]*Instance, 0, len(ids))
	for _, id := range ids {
		if inst, ok := c.Instance(id); ok {
			out = append(out, inst)
		}
	}
	return out
}
