// Package service validates registration dossiers against the account-form
// contract and hands accepted ones to the configured notifier.
package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	dErrors "comptepro/pkg/domain-errors"

	"comptepro/internal/inscription/models"
)

// MaxJustificatifBytes caps the supporting document at 10 MB.
const MaxJustificatifBytes = 10 << 20

var (
	sirenRe  = regexp.MustCompile(`^\d{9}$`)
	siretRe  = regexp.MustCompile(`^\d{14}$`)
	tvaRe    = regexp.MustCompile(`^FR\d{11}$`)
	postalRe = regexp.MustCompile(`^\d{5}$`)
	// French phone numbers: +33/0033/0 prefix, then nine digits with optional
	// space, dot, or dash separators.
	telephoneRe = regexp.MustCompile(`^(?:\+33|0033|0)[\s.\-]*[1-9](?:[\s.\-]*\d){8}$`)
	// Signature arrives as a data-URL image from the signature pad.
	signatureRe = regexp.MustCompile(`^data:image/(?:png|jpeg|svg\+xml);base64,[A-Za-z0-9+/=]+$`)
)

// justificatifMimeTypes are the accepted upload formats.
var justificatifMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// Notifier receives accepted dossiers. The default implementation only logs;
// integrators plug in their forwarding here.
type Notifier interface {
	DossierAccepted(ctx context.Context, reference string, dossier models.Dossier) error
}

// NopNotifier discards dossiers. The gateway keeps no state by design.
type NopNotifier struct{}

func (NopNotifier) DossierAccepted(context.Context, string, models.Dossier) error { return nil }

type Service struct {
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(opts ...Option) *Service {
	svc := &Service{
		notifier: NopNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Submit validates the dossier and, when accepted, returns a receipt with a
// fresh reference. Nothing is persisted.
func (s *Service) Submit(ctx context.Context, dossier models.Dossier) (*models.Receipt, error) {
	if err := Validate(dossier); err != nil {
		return nil, err
	}

	reference := uuid.NewString()
	if err := s.notifier.DossierAccepted(ctx, reference, dossier); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to forward dossier")
	}

	s.logger.InfoContext(ctx, "dossier accepted",
		"reference", reference,
		"siren", dossier.Siren,
		"raison_sociale", dossier.RaisonSociale,
	)

	return &models.Receipt{
		Success:   true,
		Reference: reference,
		Message:   "Votre demande de compte professionnel a bien été enregistrée",
	}, nil
}

// Validate checks every field of the dossier against the form contract,
// returning the first violation with a field-specific French message.
func Validate(d models.Dossier) error {
	if len(strings.TrimSpace(d.RaisonSociale)) < 2 {
		return dErrors.New(dErrors.CodeInvalidInput, "La raison sociale est obligatoire")
	}
	if !sirenRe.MatchString(d.Siren) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le SIREN doit contenir exactement 9 chiffres")
	}
	if !siretRe.MatchString(d.Siret) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le SIRET doit contenir exactement 14 chiffres")
	}
	if !strings.HasPrefix(d.Siret, d.Siren) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le SIRET ne correspond pas au SIREN")
	}
	if !tvaRe.MatchString(d.TvaIntracom) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le numéro de TVA intracommunautaire est invalide")
	}
	if !govalidator.IsEmail(d.Email) || !govalidator.StringLength(d.Email, "3", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "L'adresse e-mail est invalide")
	}
	if !telephoneRe.MatchString(strings.TrimSpace(d.Telephone)) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le numéro de téléphone est invalide")
	}
	if strings.TrimSpace(d.Voie) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "L'adresse est obligatoire")
	}
	if !postalRe.MatchString(d.CodePostal) {
		return dErrors.New(dErrors.CodeInvalidInput, "Le code postal doit contenir exactement 5 chiffres")
	}
	if strings.TrimSpace(d.Ville) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "La ville est obligatoire")
	}
	if err := validateJustificatif(d.Justificatif); err != nil {
		return err
	}
	if !signatureRe.MatchString(d.Signature) {
		return dErrors.New(dErrors.CodeInvalidInput, "La signature est invalide")
	}
	return nil
}

func validateJustificatif(j models.Justificatif) error {
	if strings.TrimSpace(j.Filename) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "Le justificatif est obligatoire")
	}
	if !justificatifMimeTypes[j.MimeType] {
		return dErrors.New(dErrors.CodeInvalidInput, "Le justificatif doit être un fichier PDF, PNG ou JPEG")
	}
	if j.SizeBytes <= 0 || j.SizeBytes > MaxJustificatifBytes {
		return dErrors.New(dErrors.CodeInvalidInput, "Le justificatif ne doit pas dépasser 10 Mo")
	}
	return nil
}
