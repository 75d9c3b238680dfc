package domain

// NotAvailable is the catalog's marker for an unknown field value.
const NotAvailable = "N/A"

// Movie stores the details of a single catalog entry.
// ID is the only identity key: two movies with the same ID are the same movie.
type Movie struct {
	ID       string `json:"imdbID" yaml:"imdbID"`
	Title    string `json:"title" yaml:"title"`
	Poster   string `json:"poster" yaml:"poster"`
	Year     string `json:"year" yaml:"year"`
	Released string `json:"released" yaml:"released"`
	Genre    string `json:"genre" yaml:"genre"`
	Plot     string `json:"plot" yaml:"plot"`
	Actors   string `json:"actors" yaml:"actors"`
	Director string `json:"director" yaml:"director"`
	Runtime  string `json:"runtime" yaml:"runtime"`
	Rating   string `json:"rating" yaml:"rating"`
}

// Normalize returns a copy of m with every empty field set to NotAvailable.
func (m Movie) Normalize() Movie {
	for _, f := range []*string{
		&m.Title, &m.Poster, &m.Year, &m.Released, &m.Genre,
		&m.Plot, &m.Actors, &m.Director, &m.Runtime, &m.Rating,
	} {
		if *f == "" {
			*f = NotAvailable
		}
	}
	return m
}

// IDs returns the ids of movies in order.
func IDs(movies []Movie) []string {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}
