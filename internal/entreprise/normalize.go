package entreprise

import (
	"strings"

	"comptepro/internal/entreprise/models"
)

// typeVoieLabels expands the abbreviated street types the registry returns
// into the labels the form displays.
var typeVoieLabels = map[string]string{
	"RUE":  "RUE",
	"AV":   "AVENUE",
	"BD":   "BOULEVARD",
	"BLVD": "BOULEVARD",
	"PL":   "PLACE",
	"CH":   "CHEMIN",
	"IMP":  "IMPASSE",
	"AL":   "ALLEE",
	"CRS":  "COURS",
	"PASS": "PASSAGE",
	"SQ":   "SQUARE",
	"QT":   "QUAI",
	"RTE":  "ROUTE",
	"RES":  "RESIDENCE",
	"DOM":  "DOMAINE",
	"LOT":  "LOTISSEMENT",
	"ZA":   "ZONE",
}

// normalizeEtablissement maps a raw registry record to the form-facing
// result.
func normalizeEtablissement(etab models.Etablissement) models.EntrepriseSearchResult {
	siren := etab.Siren
	siret := etab.Siret
	// The registry guarantees siret = siren + 5-digit suffix; trust the siret
	// when the pair disagrees or the siren is missing.
	if len(siret) >= 9 && !strings.HasPrefix(siret, siren) {
		siren = siret[:9]
	}

	raisonSociale := etab.UniteLegale.Denomination
	if raisonSociale == "" {
		raisonSociale = etab.DenominationUsuelle
	}

	return models.EntrepriseSearchResult{
		Siren:         siren,
		Siret:         siret,
		RaisonSociale: raisonSociale,
		NafApe:        etab.UniteLegale.ActivitePrincipale,
		TvaIntracom:   synthesizeTVA(siren),
		Adresse: models.Adresse{
			Voie:       buildVoie(etab.AdresseEtablissement),
			CodePostal: etab.AdresseEtablissement.CodePostal,
			Ville:      etab.AdresseEtablissement.LibelleCommune,
		},
	}
}

// buildVoie joins street number, street-type label, and street label with
// single spaces, dropping empty parts.
func buildVoie(adr models.AdresseEtablissement) string {
	parts := []string{adr.NumeroVoie, typeVoieLabel(adr.TypeVoie), adr.LibelleVoie}
	var fields []string
	for _, p := range parts {
		fields = append(fields, strings.Fields(p)...)
	}
	return strings.Join(fields, " ")
}

func typeVoieLabel(abbrev string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(abbrev, ".", ""))
	if label, ok := typeVoieLabels[cleaned]; ok {
		return label
	}
	return cleaned
}

// synthesizeTVA derives the FR\d{11} placeholder from the SIREN: "FR" plus
// the SIREN left-padded with zeros to 11 digits. The registry does not supply
// VAT numbers; this is a cosmetic value, not a verified VAT id.
func synthesizeTVA(siren string) string {
	if siren == "" {
		return ""
	}
	suffix := siren
	for len(suffix) < 11 {
		suffix = "0" + suffix
	}
	return "FR" + suffix
}
