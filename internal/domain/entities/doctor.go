package entities

// Doctor is a specialist the analyzer may recommend
type Doctor struct {
	ID              string  `json:"id" db:"id" yaml:"id"`
	Name            string  `json:"name" db:"name" yaml:"name"`
	Specialty       string  `json:"specialty" db:"specialty" yaml:"specialty"`
	HospitalID      string  `json:"hospital_id" db:"hospital_id" yaml:"hospital_id"`
	SuccessRate     float64 `json:"success_rate" db:"success_rate" yaml:"success_rate"`
	ExperienceYears int     `json:"experience_years" db:"experience_years" yaml:"experience_years"`
}
