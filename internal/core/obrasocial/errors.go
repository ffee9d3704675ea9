package obrasocial

import (
	"errors"
	"fmt"
)

var (
	// ErrObraSocialNoEncontrada is matched by every NotFoundError.
	ErrObraSocialNoEncontrada = errors.New("obra social no encontrada")

	// ErrListadoFallido wraps any store failure while listing providers.
	ErrListadoFallido = errors.New("error al obtener obras sociales")

	// ErrVerificacionFallida wraps any store failure while verifying an affiliation.
	ErrVerificacionFallida = errors.New("error al verificar afiliación")

	// ErrValidacion reports input rejected before touching the store.
	ErrValidacion = errors.New("error de validación")
)

// NotFoundError reports that the requested provider id does not exist.
type NotFoundError struct {
	ObraSocialID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Obra social con ID %d no encontrada", e.ObraSocialID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrObraSocialNoEncontrada
}
