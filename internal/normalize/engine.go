package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// Engine normalizes raw carrier records against one carrier profile.
// All pattern tables are compiled once at construction; Process is safe
// for concurrent use.
type Engine struct {
	profile  *carrier.Profile
	canon    *canonicalizer
	resolver *transmissionResolver
	logger   zerolog.Logger
}

// NewEngine compiles a carrier profile into a ready engine.
func NewEngine(profile *carrier.Profile, logger zerolog.Logger) (*Engine, error) {
	if profile == nil {
		return nil, fmt.Errorf("carrier profile is required")
	}
	canon, err := newCanonicalizer(profile)
	if err != nil {
		return nil, fmt.Errorf("compiling canonicalizer for %s: %w", profile.ID, err)
	}
	resolver, err := newTransmissionResolver(profile)
	if err != nil {
		return nil, fmt.Errorf("compiling transmission resolver for %s: %w", profile.ID, err)
	}
	return &Engine{
		profile:  profile,
		canon:    canon,
		resolver: resolver,
		logger:   logger.With().Str("component", "engine").Str("carrier", profile.ID).Logger(),
	}, nil
}

// Profile exposes the compiled carrier profile.
func (e *Engine) Profile() *carrier.Profile { return e.profile }

// Process normalizes a single record. Exactly one of the returns is
// non-nil: a normalized record on success, a coded processing error on
// failure. The input record is never modified.
func (e *Engine) Process(record RawVehicleRecord) (*NormalizedVehicleRecord, *ProcessingError) {
	brand := e.profile.ResolveBrand(Fold(record.Brand))
	model := Fold(record.Model)

	transmission := e.resolver.Resolve(record.Transmission, record.TransmissionSecondary, record.VersionOriginal)
	if transmission == "" && e.profile.DefaultTransmission != "" {
		transmission = e.profile.DefaultTransmission
	}

	if violations := validateRecord(record, transmission, e.profile); len(violations) > 0 {
		return nil, e.fail(record, CodeValidationError, strings.Join(violations, "; "))
	}

	versionClean, err := e.NormalizeVersion(record.VersionOriginal, model, brand)
	if err != nil {
		return nil, e.fail(record, CodeNormalizationError, err.Error())
	}

	hash, err := CommercialHash(brand, NormalizeModel(model, brand), record.Year, transmission)
	if err != nil {
		return nil, e.fail(record, CodeHashGenerationError, err.Error())
	}

	e.logger.Debug().
		Str("id_original", record.SourceID).
		Str("version_limpia", versionClean).
		Msg("record normalized")

	return &NormalizedVehicleRecord{
		Carrier:         e.profile.ID,
		SourceID:        record.SourceID,
		Brand:           brand,
		Model:           model,
		Year:            record.Year,
		Transmission:    transmission,
		VersionOriginal: record.VersionOriginal,
		VersionClean:    versionClean,
		ProcessedAt:     time.Now().UTC(),
		CommercialHash:  hash,
	}, nil
}

// NormalizeVersion runs the full version-cleaning pipeline: attribute
// extraction from the untouched text, canonical rewrite of the body,
// token deduplication, and re-attachment of door and occupant tokens in
// canonical form at the end. Running the result through again yields
// the same string.
func (e *Engine) NormalizeVersion(version, model, brand string) (clean string, err error) {
	defer func() {
		if r := recover(); r != nil {
			clean = ""
			err = fmt.Errorf("version pipeline panic: %v", r)
		}
	}()

	attrs := ExtractAttributes(version, e.profile)
	body := e.canon.Clean(version, model, brand)
	tokens := tokenize(body, e.profile)

	if attrs.Doors == "" {
		tokens, attrs.Doors = fallbackDoors(tokens, e.profile)
	}
	if attrs.Doors != "" {
		tokens = append(tokens, attrs.Doors)
	}
	if attrs.Occupants != "" {
		tokens = append(tokens, attrs.Occupants)
	}
	return strings.Join(tokens, " "), nil
}

func (e *Engine) fail(record RawVehicleRecord, code, message string) *ProcessingError {
	e.logger.Warn().
		Str("id_original", record.SourceID).
		Str("codigo_error", code).
		Str("mensaje", message).
		Msg("record rejected")
	return &ProcessingError{
		Error:      true,
		Message:    message,
		SourceID:   record.SourceID,
		Code:       code,
		Record:     record,
		OccurredAt: time.Now().UTC(),
	}
}
