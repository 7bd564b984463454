package handlers

import (
	"net/http"

	"bookinghub/internal/usecase"
	"bookinghub/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errUnauthenticated = pkg.NewDomainErrorSimple("AUTH", "Missing identity", http.StatusUnauthorized)
)

// mapUseCaseError turns a use case error into the response body. Every
// handler shares the same taxonomy.
func mapUseCaseError(err error) *pkg.AppError {
	switch usecase.KindOf(err) {
	case usecase.KindValidation:
		return pkg.NewDomainError("VALIDATION", "Invalid request", err, http.StatusBadRequest)
	case usecase.KindAuth:
		return pkg.NewDomainError("AUTH", "Invalid or expired credential", err, http.StatusUnauthorized)
	case usecase.KindForbidden:
		return pkg.NewDomainError("FORBIDDEN", "Not allowed for this actor", err, http.StatusForbidden)
	case usecase.KindNotFound:
		return pkg.NewDomainError("NOT_FOUND", "Booking not found", err, http.StatusNotFound)
	case usecase.KindConflict:
		return pkg.NewDomainError("VERSION_CONFLICT", "Booking changed since it was read, reload and retry", err, http.StatusConflict)
	case usecase.KindInvalidTransition:
		return pkg.NewDomainError("INVALID_TRANSITION", "Transition not allowed from the current state", err, http.StatusUnprocessableEntity)
	case usecase.KindStorageFailure:
		return pkg.NewDomainError("STORAGE_FAILURE", "Storage temporarily unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}

func abortWith(c *gin.Context, appErr *pkg.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
