package conversation

import "agronomo-ia/internal/tavus"

const genericFailureMessage = "No se pudo conectar con el asistente. Inténtalo de nuevo."

// UserMessage turns a start failure into the text shown to the user. API
// errors are shown verbatim; everything else is a generic connection error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if tavus.KindOf(err) == tavus.KindAPI {
		return "Error al crear conversación: " + err.Error()
	}
	return genericFailureMessage
}
