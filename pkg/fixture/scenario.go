package fixture

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named, ordered set of Record Source files and the overlay
// applied to each of them.
type Scenario struct {
	Name    string
	Files   []string
	Overlay Overlay
}

func NoReviewersScenario() Scenario {
	return Scenario{
		Name:    "no_reviewers",
		Files:   []string{"NOREW0000001.json", "NOREW0000002.json", "NOREW0000003.json"},
		Overlay: NoReviewers,
	}
}

func OneReviewerScenario() Scenario {
	return Scenario{
		Name:    "one_reviewer",
		Files:   []string{"ONEREW000001.json", "ONEREW000002.json", "ONEREW000003.json"},
		Overlay: OneReviewer,
	}
}

func BothReviewersScenario() Scenario {
	return Scenario{
		Name:    "both_reviewers",
		Files:   []string{"BOTHREW00001.json", "BOTHREW00002.json", "BOTHREW00003.json"},
		Overlay: BothReviewers,
	}
}

// Catalog holds scenarios by name, preserving declaration order.
type Catalog struct {
	byName map[string]Scenario
	order  []string
}

func NewCatalog(scenarios ...Scenario) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Scenario, len(scenarios))}
	for _, sc := range scenarios {
		if err := c.add(sc); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BuiltinCatalog returns the three reviewer-state scenarios.
func BuiltinCatalog() *Catalog {
	c, err := NewCatalog(NoReviewersScenario(), OneReviewerScenario(), BothReviewersScenario())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) add(sc Scenario) error {
	switch {
	case sc.Name == "":
		return fmt.Errorf("fixture: scenario without name")
	case len(sc.Files) == 0:
		return fmt.Errorf("fixture: scenario %s has no records", sc.Name)
	case sc.Overlay == nil:
		return fmt.Errorf("fixture: scenario %s has no overlay", sc.Name)
	}
	if _, dup := c.byName[sc.Name]; dup {
		return fmt.Errorf("fixture: duplicate scenario %s", sc.Name)
	}
	c.byName[sc.Name] = sc
	c.order = append(c.order, sc.Name)
	return nil
}

func (c *Catalog) Get(name string) (Scenario, bool) {
	sc, ok := c.byName[name]
	return sc, ok
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

type catalogFile struct {
	Scenarios []scenarioEntry `yaml:"scenarios"`
}

type scenarioEntry struct {
	Name    string   `yaml:"name"`
	Overlay string   `yaml:"overlay"`
	Records []string `yaml:"records"`
}

// LoadCatalog reads scenario declarations from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debugf("Loaded %d scenario(s) from %s", len(c.order), path)
	return c, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("fixture: decode catalog: %w", err)
	}

	c := &Catalog{byName: make(map[string]Scenario, len(f.Scenarios))}
	for _, e := range f.Scenarios {
		overlay, err := OverlayByName(e.Overlay)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", e.Name, err)
		}
		if err := c.add(Scenario{Name: e.Name, Files: e.Records, Overlay: overlay}); err != nil {
			return nil, err
		}
	}
	return c, nil
}
