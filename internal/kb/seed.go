package kb

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"kindred/internal/logging"
	"kindred/internal/relation"
)

// SeedFile is the YAML shape of a seed knowledge file:
//
//	facts:
//	  - relation: mother
//	    names: [alice, bob]
//	  - relation: sibling
//	    names: [bob, carol]
//	    common_parent: alice
type SeedFile struct {
	Facts []SeedFact `yaml:"facts"`
}

// SeedFact is one seed assertion.
type SeedFact struct {
	Relation     string   `yaml:"relation"`
	Names        []string `yaml:"names"`
	CommonParent string   `yaml:"common_parent"`
}

// SeedReport summarizes a seed application.
type SeedReport struct {
	Applied  int
	Rejected int
	// Rejections holds one line per rejected entry.
	Rejections []string
}

// LoadSeed applies every assertion in a YAML seed file through the
// normal assert path. Rejected entries are reported, not fatal; seed
// loading is idempotent because asserts are.
func (k *KnowledgeBase) LoadSeed(path string) (SeedReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedReport{}, fmt.Errorf("read seed file: %w", err)
	}
	var sf SeedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SeedReport{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	var report SeedReport
	for i, fact := range sf.Facts {
		res, err := k.Assert(relation.Assertion{
			Type:         relation.Type(fact.Relation),
			Names:        fact.Names,
			CommonParent: fact.CommonParent,
		})
		if err != nil {
			report.Rejected++
			report.Rejections = append(report.Rejections,
				fmt.Sprintf("facts[%d] %s%v: %v", i, fact.Relation, fact.Names, err))
			continue
		}
		if !res.Accepted {
			report.Rejected++
			report.Rejections = append(report.Rejections,
				fmt.Sprintf("facts[%d] %s%v: %v", i, fact.Relation, fact.Names, res.Reasons))
			continue
		}
		report.Applied++
	}

	logging.Boot("seed %s: %d applied, %d rejected", path, report.Applied, report.Rejected)
	return report, nil
}
