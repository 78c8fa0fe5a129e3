package seeder

func Defaults() []Seeder {
	return []Seeder{
		ExpertsSeeder{},
		DemandsSeeder{},
	}
}
