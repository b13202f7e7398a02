// Package models defines the account-registration dossier the form submits
// once the wizard completes.
package models

// Dossier is the validated registration payload. Company identifiers come
// from the registry search (or manual entry), the rest from the form.
type Dossier struct {
	// Company identifiers.
	RaisonSociale string `json:"raisonSociale"`
	Siren         string `json:"siren"`
	Siret         string `json:"siret"`
	NafApe        string `json:"nafApe"`
	TvaIntracom   string `json:"tvaIntracom"`

	// Contact.
	Email     string `json:"email"`
	Telephone string `json:"telephone"`

	// Address.
	Voie       string `json:"voie"`
	CodePostal string `json:"codePostal"`
	Ville      string `json:"ville"`

	// Documents.
	Justificatif Justificatif `json:"justificatif"`
	// Signature is a data-URL image string captured from the signature pad.
	Signature string `json:"signature"`
}

// Justificatif describes the uploaded supporting document. The gateway
// validates the declared metadata; the binary itself stays on the upload
// channel, outside this service.
type Justificatif struct {
	Filename  string `json:"filename"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// Receipt acknowledges an accepted dossier.
type Receipt struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}
