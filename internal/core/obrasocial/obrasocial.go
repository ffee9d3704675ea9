package obrasocial

// ObraSocial is a health-insurance provider as stored in obras_sociales.
type ObraSocial struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// Afiliado is one membership fact: an affiliate number registered under a provider.
// The number is only unique per provider.
type Afiliado struct {
	NumeroAfiliado   string `json:"numero_afiliado"`
	ObraSocialID     int64  `json:"obra_social_id"`
	ObraSocialNombre string `json:"obra_social_nombre"`
}

// VerificacionAfiliacion is the outcome of checking an affiliate number against a provider.
// ObraSocial is set whenever the provider exists, regardless of EstaAfiliado.
type VerificacionAfiliacion struct {
	EstaAfiliado   bool        `json:"esta_afiliado"`
	NumeroAfiliado string      `json:"numero_afiliado"`
	ObraSocial     *ObraSocial `json:"obra_social"`
}
