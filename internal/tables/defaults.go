package tables

// Default returns the built-in synthetic tables.
func Default() *Tables {
	return &Tables{
		Occupations: map[string]Occupation{
			"Data Entry Clerk":                {BaseHazard: 65, RoleMultiplier: 1.35},
			"Paralegal":                       {BaseHazard: 70, RoleMultiplier: 1.20},
			"Financial Analyst":               {BaseHazard: 55, RoleMultiplier: 0.85},
			"Software Developer":              {BaseHazard: 40, RoleMultiplier: 0.60},
			"Senior Research Scientist":       {BaseHazard: 30, RoleMultiplier: 0.30},
			"Customer Service Representative": {BaseHazard: 80, RoleMultiplier: 1.50},
			"Project Manager":                 {BaseHazard: 45, RoleMultiplier: 0.70},
			"HR Manager":                      {BaseHazard: 50, RoleMultiplier: 0.80},
			"Marketing Specialist":            {BaseHazard: 60, RoleMultiplier: 0.90},
			"Graphic Designer":                {BaseHazard: 58, RoleMultiplier: 0.95},
			"Accountant":                      {BaseHazard: 75, RoleMultiplier: 1.30},
			"Nurse":                           {BaseHazard: 20, RoleMultiplier: 0.20},
			"Electrician":                     {BaseHazard: 15, RoleMultiplier: 0.15},
			"Data Scientist":                  {BaseHazard: 35, RoleMultiplier: 0.50},
			"Teacher":                         {BaseHazard: 25, RoleMultiplier: 0.25},
		},
		EducationLevels: map[string]EducationLevel{
			"High School": {LevelFactor: 1.15},
			"Associate's": {LevelFactor: 1.10},
			"Bachelor's":  {LevelFactor: 1.00},
			"Master's":    {LevelFactor: 0.90},
			"PhD":         {LevelFactor: 0.85},
		},
		EducationFields: map[string]EducationField{
			"Liberal Arts/Humanities": {FieldFactor: 1.10},
			"Business/Management":     {FieldFactor: 1.05},
			"STEM (Science, Technology, Engineering, Math)": {FieldFactor: 0.90},
			"Fine Arts/Design": {FieldFactor: 1.08},
			"Healthcare":       {FieldFactor: 0.88},
		},
		SchoolTiers: map[string]SchoolTier{
			"Tier 1 (Ivy League/Top Research)": {SchoolFactor: 0.95},
			"Tier 2 (Reputable State/Private)": {SchoolFactor: 1.00},
			"Tier 3 (Local/Community College)": {SchoolFactor: 1.05},
		},
		CompanyTypes: map[string]CompanyType{
			"Big Tech/Innovative Start-up":      {CompanyRiskFactor: 0.90},
			"Large Established Firm (Non-Tech)": {CompanyRiskFactor: 1.00},
			"Mid-size Firm":                     {CompanyRiskFactor: 1.05},
			"Small Business/Local Enterprise":   {CompanyRiskFactor: 1.15},
			"Government/Non-Profit":             {CompanyRiskFactor: 0.95},
		},
	}
}
