package fixture

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/docview/pkg/core"
	"github.com/aretw0/docview/pkg/docset"
	"github.com/aretw0/docview/pkg/query"
	"github.com/aretw0/docview/pkg/view"
)

// Scenario describes two results of one query and the session metadata of
// the second. It is the YAML format read by `docview diff`:
//
//	query:
//	  path: rooms
//	  orderBy:
//	    - field: rank
//	      direction: desc
//	old:
//	  - {id: a, version: 1, data: {rank: 1}}
//	new:
//	  - {id: a, version: 2, data: {rank: 3}}
//	mutated: [a]
type Scenario struct {
	Query struct {
		Path    string          `yaml:"path"`
		OrderBy []query.OrderBy `yaml:"orderBy"`
	} `yaml:"query"`
	Old                    []ScenarioDoc `yaml:"old"`
	New                    []ScenarioDoc `yaml:"new"`
	Mutated                []string      `yaml:"mutated"`
	MetadataChanged        []string      `yaml:"metadataChanged"`
	FromCache              bool          `yaml:"fromCache"`
	SyncStateChanged       bool          `yaml:"syncStateChanged"`
	IncludeMetadataChanges bool          `yaml:"includeMetadataChanges"`
}

// ScenarioDoc is one document of a Scenario. ID is relative to the query path.
type ScenarioDoc struct {
	ID      string         `yaml:"id"`
	Version int64          `yaml:"version"`
	Data    map[string]any `yaml:"data"`
}

// LoadScenario decodes a YAML scenario.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	return &s, nil
}

// LoadScenarioFile decodes the YAML scenario at path.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScenario(f)
}

// BuildQuery returns the scenario's query.
func (s *Scenario) BuildQuery() (query.Query, error) {
	q, err := query.Parse(s.Query.Path)
	if err != nil {
		return query.Query{}, err
	}
	for _, ob := range s.Query.OrderBy {
		dir, err := query.ParseDirection(string(ob.Direction))
		if err != nil {
			return query.Query{}, err
		}
		q = q.OrderBy(ob.Field, dir)
	}
	return q, nil
}

// Snapshot diffs the old and new documents and assembles the snapshot.
func (s *Scenario) Snapshot() (*view.Snapshot, error) {
	q, err := s.BuildQuery()
	if err != nil {
		return nil, err
	}
	oldDocs, err := s.set(q, s.Old)
	if err != nil {
		return nil, fmt.Errorf("old documents: %w", err)
	}
	newDocs, err := s.set(q, s.New)
	if err != nil {
		return nil, fmt.Errorf("new documents: %w", err)
	}
	mutated, err := s.keys(q, s.Mutated)
	if err != nil {
		return nil, err
	}
	metadataChanged, err := s.keys(q, s.MetadataChanged)
	if err != nil {
		return nil, err
	}

	return view.NewSnapshot(view.SnapshotParams{
		Query:                   q,
		Docs:                    newDocs,
		OldDocs:                 oldDocs,
		Changes:                 view.Diff(oldDocs, newDocs, metadataChanged),
		MutatedKeys:             mutated,
		FromCache:               s.FromCache,
		SyncStateChanged:        s.SyncStateChanged,
		ExcludesMetadataChanges: !s.IncludeMetadataChanges,
	}), nil
}

func (s *Scenario) key(q query.Query, id string) (core.Key, error) {
	return core.ParseKey(q.Path().String() + "/" + id)
}

func (s *Scenario) set(q query.Query, docs []ScenarioDoc) (*docset.DocumentSet, error) {
	set := docset.New(q.Comparator())
	for _, d := range docs {
		key, err := s.key(q, d.ID)
		if err != nil {
			return nil, err
		}
		if set.Has(key) {
			return nil, fmt.Errorf("duplicate document id %q", d.ID)
		}
		set = set.Add(core.NewDocument(key, d.Version, d.Data))
	}
	return set, nil
}

func (s *Scenario) keys(q query.Query, ids []string) (core.KeySet, error) {
	keys := core.KeySet{}
	for _, id := range ids {
		key, err := s.key(q, id)
		if err != nil {
			return core.KeySet{}, err
		}
		keys = keys.Add(key)
	}
	return keys, nil
}
