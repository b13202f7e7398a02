// Package models defines the normalized company record served to the
// registration form and the raw Sirene API shapes it is built from.
package models

// Adresse is the normalized establishment address.
type Adresse struct {
	Voie       string `json:"voie"`
	CodePostal string `json:"codePostal"`
	Ville      string `json:"ville"`
}

// EntrepriseSearchResult is the normalized company record returned to the
// client. Built fresh per search response, never persisted.
//
// Invariant: Siret starts with Siren (the registry enforces it; normalization
// re-derives Siren from Siret when the upstream record disagrees).
//
// TvaIntracom is synthesized ("FR" + the SIREN zero-padded to 11 digits): the
// registry does not supply VAT numbers, so this is a placeholder of the
// documented FR\d{11} shape, not a verified VAT id. Downstream fixtures rely
// on the exact synthesis rule.
type EntrepriseSearchResult struct {
	Siren         string  `json:"siren"`
	Siret         string  `json:"siret"`
	RaisonSociale string  `json:"raisonSociale"`
	NafApe        string  `json:"nafApe"`
	TvaIntracom   string  `json:"tvaIntracom"`
	Adresse       Adresse `json:"adresse"`
}

// SireneResponse is the upstream search envelope. Transient: exists only
// during normalization.
type SireneResponse struct {
	Header         SireneHeader    `json:"header"`
	Etablissements []Etablissement `json:"etablissements"`
}

// SireneHeader carries upstream status/count metadata.
type SireneHeader struct {
	Statut  int    `json:"statut"`
	Message string `json:"message"`
	Total   int    `json:"total"`
}

// Etablissement is the raw establishment record with its nested legal unit
// and address sub-objects, field names per the Sirene API.
type Etablissement struct {
	Siren                     string               `json:"siren"`
	Siret                     string               `json:"siret"`
	UniteLegale               UniteLegale          `json:"uniteLegale"`
	AdresseEtablissement      AdresseEtablissement `json:"adresseEtablissement"`
	DenominationUsuelle       string               `json:"denominationUsuelleEtablissement"`
	StatutDiffusion           string               `json:"statutDiffusionEtablissement"`
	EtablissementSiege        bool                 `json:"etablissementSiege"`
	DateCreationEtablissement string               `json:"dateCreationEtablissement"`
}

// UniteLegale is the legal-unit sub-object.
type UniteLegale struct {
	Denomination       string `json:"denominationUniteLegale"`
	ActivitePrincipale string `json:"activitePrincipaleUniteLegale"`
	CategorieJuridique string `json:"categorieJuridiqueUniteLegale"`
	DateCreation       string `json:"dateCreationUniteLegale"`
}

// AdresseEtablissement is the address sub-object.
type AdresseEtablissement struct {
	NumeroVoie     string `json:"numeroVoieEtablissement"`
	TypeVoie       string `json:"typeVoieEtablissement"`
	LibelleVoie    string `json:"libelleVoieEtablissement"`
	CodePostal     string `json:"codePostalEtablissement"`
	LibelleCommune string `json:"libelleCommuneEtablissement"`
}
