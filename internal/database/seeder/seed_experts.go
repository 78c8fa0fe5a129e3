package seeder

import (
	"context"
	"encoding/json"

	"expert-match/internal/database"
)

type ExpertsSeeder struct{}

func (ExpertsSeeder) Name() string { return "experts" }

type demoExpert struct {
	Email         string
	Name          string
	Specialties   []string
	Qualification string
	CareerYears   int
	// Evaluation is nil for experts without graded answers.
	Evaluation *float64
	Graded     int
}

func demoExperts() []demoExpert {
	pct := func(v float64) *float64 { return &v }
	return []demoExpert{
		{Email: "kim.ai@example.com", Name: "Kim Seo-yeon", Specialties: []string{"AI", "ML", "DATA"}, Qualification: "QUALIFIED", CareerYears: 15, Evaluation: pct(85), Graded: 12},
		{Email: "lee.semi@example.com", Name: "Lee Jun-ho", Specialties: []string{"SEMICONDUCTOR", "AI"}, Qualification: "QUALIFIED", CareerYears: 9, Evaluation: pct(72.5), Graded: 8},
		{Email: "park.bio@example.com", Name: "Park Min-ji", Specialties: []string{"BIO", "DATA"}, Qualification: "PENDING", CareerYears: 6},
		{Email: "choi.battery@example.com", Name: "Choi Dong-hyun", Specialties: []string{"BATTERY", "ENERGY"}, Qualification: "QUALIFIED", CareerYears: 20, Evaluation: pct(91), Graded: 20},
		{Email: "jung.robot@example.com", Name: "Jung Ha-eun", Specialties: []string{"ROBOTICS", "AI", "ML"}, Qualification: "PENDING", CareerYears: 3, Evaluation: pct(64), Graded: 4},
		{Email: "han.legacy@example.com", Name: "Han Sung-woo", Specialties: []string{"AI"}, Qualification: "DISQUALIFIED", CareerYears: 11},
	}
}

func (ExpertsSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := EnsureSchema(ctx, db,
		Requirement{Table: "users", Columns: []string{"id", "email", "name", "role"}},
		Requirement{Table: "experts", Columns: []string{"id", "user_id", "career_years", "specialties", "qualification_status", "is_active"}},
		Requirement{Table: "expert_scores", Columns: []string{"expert_id", "average_percentage", "graded_count", "total_count"}},
	); err != nil {
		return 0, err
	}

	inserted := 0
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, e := range demoExperts() {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO users (email, name, role) VALUES ($1, $2, 'EXPERT') ON CONFLICT (email) DO NOTHING`,
				e.Email,
				e.Name,
			); err != nil {
				return err
			}

			specialties, err := json.Marshal(e.Specialties)
			if err != nil {
				return err
			}
			n, err := tx.Exec(
				ctx,
				`INSERT INTO experts (user_id, career_years, specialties, qualification_status)
SELECT u.id, $2, $3::jsonb, $4 FROM users u WHERE u.email = $1
ON CONFLICT (user_id) DO NOTHING`,
				e.Email,
				e.CareerYears,
				string(specialties),
				e.Qualification,
			)
			if err != nil {
				return err
			}
			inserted += int(n)

			if e.Evaluation == nil {
				continue
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO expert_scores (expert_id, average_percentage, graded_count, total_count)
SELECT x.id, $2, $3, $3 FROM experts x JOIN users u ON u.id = x.user_id WHERE u.email = $1
ON CONFLICT (expert_id) DO NOTHING`,
				e.Email,
				*e.Evaluation,
				e.Graded,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
