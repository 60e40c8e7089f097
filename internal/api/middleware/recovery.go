package middleware

import (
	"net/http"

	"github.com/BorDevTech/games-server/internal/api/apierr"
)

// PanicHandler writes a JSON internal error for panics escaping handlers
func PanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
