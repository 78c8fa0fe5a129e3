package main

import (
	"encoding/json"
	"fmt"
	"io"

	"expert-match/internal/domain/matching"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type breakdownView struct {
	Specialty     float64 `json:"specialty" yaml:"specialty"`
	Qualification float64 `json:"qualification" yaml:"qualification"`
	Career        float64 `json:"career" yaml:"career"`
	Evaluation    float64 `json:"evaluation" yaml:"evaluation"`
	Availability  float64 `json:"availability" yaml:"availability"`
	Total         float64 `json:"total" yaml:"total"`
}

type candidateView struct {
	Rank        int           `json:"rank" yaml:"rank"`
	ExpertID    string        `json:"expert_id" yaml:"expert_id"`
	ExpertName  string        `json:"expert_name" yaml:"expert_name"`
	Total       float64       `json:"total_score" yaml:"total_score"`
	Breakdown   breakdownView `json:"score_breakdown" yaml:"score_breakdown"`
	Reasons     []string      `json:"reasons" yaml:"reasons"`
	Missing     []string      `json:"missing_specialties,omitempty" yaml:"missing_specialties,omitempty"`
	Qualified   string        `json:"qualification_status" yaml:"qualification_status"`
	Specialties []string      `json:"specialties" yaml:"specialties"`
}

type skippedView struct {
	ExpertID string `json:"expert_id" yaml:"expert_id"`
	Reason   string `json:"reason" yaml:"reason"`
}

type recommendView struct {
	DemandID   string          `json:"demand_id" yaml:"demand_id"`
	Title      string          `json:"demand_title" yaml:"demand_title"`
	TopN       int             `json:"top_n" yaml:"top_n"`
	MinScore   float64         `json:"min_score" yaml:"min_score"`
	Considered int             `json:"considered" yaml:"considered"`
	Eligible   int             `json:"eligible" yaml:"eligible"`
	Candidates []candidateView `json:"candidates" yaml:"candidates"`
	Skipped    []skippedView   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type compatView struct {
	ExpertID   string        `json:"expert_id" yaml:"expert_id"`
	DemandID   string        `json:"demand_id" yaml:"demand_id"`
	Band       string        `json:"recommendation" yaml:"recommendation"`
	BandText   string        `json:"recommendation_text" yaml:"recommendation_text"`
	Breakdown  breakdownView `json:"score_breakdown" yaml:"score_breakdown"`
	Reasons    []string      `json:"reasons" yaml:"reasons"`
	Matched    []string      `json:"matched_specialties" yaml:"matched_specialties"`
	Missing    []string      `json:"missing_specialties" yaml:"missing_specialties"`
	Defaulted  []string      `json:"neutral_defaults,omitempty" yaml:"neutral_defaults,omitempty"`
	CareerCap  int           `json:"career_cap_years" yaml:"career_cap_years"`
	ActiveJobs *int          `json:"active_matchings,omitempty" yaml:"active_matchings,omitempty"`
}

func toBreakdownView(b matching.MatchScoreBreakdown) breakdownView {
	return breakdownView{
		Specialty:     b.Specialty,
		Qualification: b.Qualification,
		Career:        b.Career,
		Evaluation:    b.Evaluation,
		Availability:  b.Availability,
		Total:         b.Total,
	}
}

func toRecommendView(d matching.Demand, topN int, minScore float64, rec matching.Recommendation) recommendView {
	v := recommendView{
		DemandID:   d.ID.String(),
		Title:      d.Title,
		TopN:       topN,
		MinScore:   minScore,
		Considered: rec.Considered,
		Eligible:   rec.Eligible,
		Candidates: make([]candidateView, 0, len(rec.Candidates)),
	}
	for i, c := range rec.Candidates {
		v.Candidates = append(v.Candidates, candidateView{
			Rank:        i + 1,
			ExpertID:    c.ExpertID.String(),
			ExpertName:  c.ExpertName,
			Total:       c.TotalScore,
			Breakdown:   toBreakdownView(c.Breakdown),
			Reasons:     c.Reasons,
			Missing:     c.Details.MissingSpecialties,
			Qualified:   string(c.Qualification),
			Specialties: c.Specialties,
		})
	}
	for _, s := range rec.Skipped {
		v.Skipped = append(v.Skipped, skippedView{ExpertID: s.ExpertID.String(), Reason: s.Err.Error()})
	}
	return v
}

func toCompatView(c matching.Compatibility) compatView {
	v := compatView{
		ExpertID:   c.ExpertID.String(),
		DemandID:   c.DemandID.String(),
		Band:       string(c.Band),
		BandText:   c.Band.Text(),
		Breakdown:  toBreakdownView(c.Breakdown),
		Reasons:    c.Reasons,
		Matched:    c.Details.MatchedSpecialties,
		Missing:    c.Details.MissingSpecialties,
		CareerCap:  c.Details.CareerCapYears,
		ActiveJobs: c.Details.ActiveMatchings,
	}
	if c.Details.NeutralSpecialty {
		v.Defaulted = append(v.Defaulted, "specialty")
	}
	if c.Details.NeutralEvaluation {
		v.Defaulted = append(v.Defaulted, "evaluation")
	}
	if c.Details.NeutralAvailability {
		v.Defaulted = append(v.Defaulted, "availability")
	}
	return v
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

func parseID(flag, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return id, nil
}
