package seeder

import (
	"context"
	"encoding/json"

	"expert-match/internal/database"
)

type DemandsSeeder struct{}

func (DemandsSeeder) Name() string { return "demands" }

func (DemandsSeeder) Run(ctx context.Context, db database.DB) (int, error) {
	if err := EnsureSchema(ctx, db,
		Requirement{Table: "companies", Columns: []string{"id", "name"}},
		Requirement{Table: "demands", Columns: []string{"id", "company_id", "title", "required_specialties", "priority", "status"}},
	); err != nil {
		return 0, err
	}

	items := []struct {
		Company     string
		Title       string
		Specialties []string
		Priority    int
	}{
		{Company: "Hanbit Robotics", Title: "Vision model review for pick-and-place line", Specialties: []string{"AI", "ML", "ROBOTICS"}, Priority: 4},
		{Company: "Hanbit Robotics", Title: "Cell chemistry due diligence", Specialties: []string{"BATTERY"}, Priority: 2},
		{Company: "Saebom Pharma", Title: "Clinical data pipeline audit", Specialties: []string{"BIO", "DATA"}, Priority: 3},
		{Company: "Saebom Pharma", Title: "General technology advisory", Specialties: []string{}, Priority: 1},
	}

	inserted := 0
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO companies (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
				it.Company,
			); err != nil {
				return err
			}

			specialties, err := json.Marshal(it.Specialties)
			if err != nil {
				return err
			}
			n, err := tx.Exec(
				ctx,
				`INSERT INTO demands (company_id, title, required_specialties, priority)
SELECT c.id, $2, $3::jsonb, $4 FROM companies c
WHERE c.name = $1 AND NOT EXISTS (SELECT 1 FROM demands d WHERE d.company_id = c.id AND d.title = $2)`,
				it.Company,
				it.Title,
				string(specialties),
				it.Priority,
			)
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
