package lifecycle

import "errors"

var (
	// ErrNotFound means the order cannot be resolved for the given
	// driver, or it has been cancelled. Mutating operations fail closed
	// with this error instead of touching an unauthorized row.
	ErrNotFound = errors.New("no se encontró el servicio, por favor valida la información")

	// ErrConflict means the operation is no longer allowed in the
	// service's current state, e.g. rescheduling after confirmation.
	ErrConflict = errors.New("el servicio ya fue confirmado, no es posible cambiar la hora")

	// ErrEvidenceUpload means the evidence image could not be persisted.
	// It aborts the whole finish operation.
	ErrEvidenceUpload = errors.New("error cargando la imagen al servidor, por favor contacta al administrador")
)
