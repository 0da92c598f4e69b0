package syncjob

// Stats contadores por componente de una corrida: entidades creadas,
// actualizadas, saltadas (dato local defectuoso o ya al día) y fallidas
// (error remoto; se reintentan en la siguiente corrida).
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add acumula otros contadores sobre estos.
func (s *Stats) Add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Failed += other.Failed
}
