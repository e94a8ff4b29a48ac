package domain

// CareerVector es una entrada estatica del catalogo de carreras.
type CareerVector struct {
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category,omitempty" yaml:"category"`
	Vector      Profile `json:"vector" yaml:"-"`
	Description string  `json:"description,omitempty" yaml:"description"`
}

// CareerMatch es una carrera recomendada con su similitud y descripcion.
type CareerMatch struct {
	Career      string  `json:"career"`
	Category    string  `json:"category,omitempty"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}
