package obrasocial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tfi/obras-sociales-api/internal/core/obrasocial"
	ctxutil "tfi/obras-sociales-api/internal/infrastructure/context"
	"tfi/obras-sociales-api/internal/infrastructure/security"
)

const tracerName = "tfi/obras-sociales-api/internal/application/obrasocial"

// Operation names reported to the OperationObserver.
const (
	OperationListar    = "listar_obras_sociales"
	OperationVerificar = "verificar_afiliacion"
)

// Operation results reported to the OperationObserver.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// OperationObserver receives one call per service operation.
type OperationObserver interface {
	ObserveOperation(operation, result string, start time.Time)
}

// Service orchestrates the provider directory use cases. It holds no mutable
// state; every call opens its own connection scope.
type Service struct {
	scope    obrasocial.Scope
	log      *slog.Logger
	observer OperationObserver
	tracer   trace.Tracer
}

// NewService creates a new directory service over scope. observer may be nil.
func NewService(scope obrasocial.Scope, log *slog.Logger, observer OperationObserver) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		scope:    scope,
		log:      log,
		observer: observer,
		tracer:   otel.Tracer(tracerName),
	}
}

// ListObrasSociales returns every provider ordered by id ascending.
// Store failures are reported as obrasocial.ErrListadoFallido; partial
// results are never returned.
func (s *Service) ListObrasSociales(ctx context.Context) (_ []obrasocial.ObraSocial, err error) {
	ctx, span := s.tracer.Start(ctx, "ListObrasSociales")
	defer span.End()

	start := time.Now()
	defer func() { s.observe(OperationListar, err, start) }()

	var obras []obrasocial.ObraSocial
	err = s.scope.WithConnection(ctx, func(ctx context.Context, store obrasocial.Store) error {
		var err error
		obras, err = store.ListObrasSociales(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list obras sociales")
		s.logger(ctx).Error("Failed to list obras sociales", "error", err)
		return nil, fmt.Errorf("%w: %w", obrasocial.ErrListadoFallido, err)
	}

	if obras == nil {
		obras = []obrasocial.ObraSocial{}
	}
	span.SetAttributes(attribute.Int("obras_sociales.count", len(obras)))

	return obras, nil
}

// VerificarAfiliacion checks whether numeroAfiliado is registered under the
// provider obraSocialID.
//
// A missing provider fails with a *obrasocial.NotFoundError and no membership
// query is issued. A missing affiliate is a normal result with EstaAfiliado
// false. Any other store failure is reported as obrasocial.ErrVerificacionFallida.
func (s *Service) VerificarAfiliacion(ctx context.Context, obraSocialID int64, numeroAfiliado string) (_ *obrasocial.VerificacionAfiliacion, err error) {
	ctx, span := s.tracer.Start(ctx, "VerificarAfiliacion",
		trace.WithAttributes(attribute.Int64("obra_social.id", obraSocialID)),
	)
	defer span.End()

	start := time.Now()
	defer func() { s.observe(OperationVerificar, err, start) }()

	if numeroAfiliado == "" {
		return nil, fmt.Errorf("%w: numero_afiliado es requerido", obrasocial.ErrValidacion)
	}

	log := s.logger(ctx).With(
		"obra_social_id", obraSocialID,
		"numero_afiliado", security.MaskAffiliateNumber(numeroAfiliado),
	)

	var result *obrasocial.VerificacionAfiliacion
	err = s.scope.WithConnection(ctx, func(ctx context.Context, store obrasocial.Store) error {
		obra, err := store.FindObraSocial(ctx, obraSocialID)
		if err != nil {
			return err
		}
		if obra == nil {
			return &obrasocial.NotFoundError{ObraSocialID: obraSocialID}
		}

		afiliado, err := store.FindAfiliado(ctx, numeroAfiliado, obraSocialID)
		if err != nil {
			return err
		}

		result = &obrasocial.VerificacionAfiliacion{
			EstaAfiliado:   afiliado != nil,
			NumeroAfiliado: numeroAfiliado,
			ObraSocial:     obra,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, obrasocial.ErrObraSocialNoEncontrada) {
			log.Info("Obra social not found")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "verify affiliation")
		log.Error("Failed to verify affiliation", "error", err)
		return nil, fmt.Errorf("%w: %w", obrasocial.ErrVerificacionFallida, err)
	}

	span.SetAttributes(attribute.Bool("afiliacion.esta_afiliado", result.EstaAfiliado))
	log.Debug("Affiliation verified", "esta_afiliado", result.EstaAfiliado)

	return result, nil
}

func (s *Service) observe(operation string, err error, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(operation, resultOf(err), start)
}

func (s *Service) logger(ctx context.Context) *slog.Logger {
	if id := ctxutil.GetCorrelationID(ctx); id != "" {
		return s.log.With("correlation_id", id)
	}
	return s.log
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, obrasocial.ErrObraSocialNoEncontrada):
		return ResultNotFound
	case errors.Is(err, obrasocial.ErrValidacion):
		return ResultInvalid
	default:
		return ResultError
	}
}
