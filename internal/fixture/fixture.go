// Package fixture reads offline scoring inputs for matchctl.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"expert-match/internal/domain/matching"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var ErrUnknownID = errors.New("id not present in fixture")

type Expert struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Specialties       []string `yaml:"specialties"`
	Qualification     string   `yaml:"qualification"`
	CareerYears       int      `yaml:"career_years"`
	Availability      *float64 `yaml:"availability,omitempty"`
	ActiveMatchings   *int     `yaml:"active_matchings,omitempty"`
	EvaluationPercent *float64 `yaml:"evaluation_percent,omitempty"`
	GradedCount       int      `yaml:"graded_count,omitempty"`
}

type Demand struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	// Left out entirely, the demand cannot be scored; an empty list is the
	// neutral case.
	RequiredSpecialties []string `yaml:"required_specialties"`
	Priority            int      `yaml:"priority,omitempty"`
}

type File struct {
	Experts []Expert `yaml:"experts"`
	Demands []Demand `yaml:"demands"`
}

// Set is a parsed fixture with IDs resolved.
type Set struct {
	Experts []matching.Expert
	Demands map[uuid.UUID]matching.Demand
}

func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, err
	}
	defer f.Close()
	return Decode(f)
}

func Decode(r io.Reader) (Set, error) {
	var raw File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Set{Demands: map[uuid.UUID]matching.Demand{}}, nil
		}
		return Set{}, fmt.Errorf("decode fixture: %w", err)
	}
	return raw.resolve()
}

func (f File) resolve() (Set, error) {
	out := Set{
		Experts: make([]matching.Expert, 0, len(f.Experts)),
		Demands: make(map[uuid.UUID]matching.Demand, len(f.Demands)),
	}

	seen := make(map[uuid.UUID]struct{}, len(f.Experts))
	for i, e := range f.Experts {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return Set{}, fmt.Errorf("experts[%d]: invalid id %q: %w", i, e.ID, err)
		}
		if _, dup := seen[id]; dup {
			return Set{}, fmt.Errorf("experts[%d]: duplicate id %s", i, id)
		}
		seen[id] = struct{}{}

		out.Experts = append(out.Experts, matching.Expert{
			ID:                id,
			Name:              e.Name,
			Specialties:       e.Specialties,
			Qualification:     matching.Qualification(e.Qualification),
			CareerYears:       e.CareerYears,
			Availability:      e.Availability,
			ActiveMatchings:   e.ActiveMatchings,
			EvaluationPercent: e.EvaluationPercent,
			GradedCount:       e.GradedCount,
		})
	}

	for i, d := range f.Demands {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return Set{}, fmt.Errorf("demands[%d]: invalid id %q: %w", i, d.ID, err)
		}
		if _, dup := out.Demands[id]; dup {
			return Set{}, fmt.Errorf("demands[%d]: duplicate id %s", i, id)
		}
		out.Demands[id] = matching.Demand{
			ID:                  id,
			Title:               d.Title,
			RequiredSpecialties: d.RequiredSpecialties,
			Priority:            d.Priority,
		}
	}

	return out, nil
}

func (s Set) Demand(id uuid.UUID) (matching.Demand, error) {
	d, ok := s.Demands[id]
	if !ok {
		return matching.Demand{}, fmt.Errorf("demand %s: %w", id, ErrUnknownID)
	}
	return d, nil
}

func (s Set) Expert(id uuid.UUID) (matching.Expert, error) {
	for _, e := range s.Experts {
		if e.ID == id {
			return e, nil
		}
	}
	return matching.Expert{}, fmt.Errorf("expert %s: %w", id, ErrUnknownID)
}
