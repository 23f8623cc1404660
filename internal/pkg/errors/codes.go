package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Area must be a polygon with at least 3 vertices",
		http.StatusBadRequest,
	)

	ErrOperationNotFound = New(
		"OPERATION_NOT_FOUND",
		"Operation not found",
		http.StatusNotFound,
	)

	ErrPersonNotFound = New(
		"PERSON_NOT_FOUND",
		"Person not found",
		http.StatusNotFound,
	)

	ErrDuplicateOperation = New(
		"DUPLICATE_OPERATION",
		"Operation with this id already exists",
		http.StatusConflict,
	)

	// ErrStaleReport - погода формы изменилась, пока шёл анализ
	ErrStaleReport = New(
		"STALE_REPORT",
		"Weather changed while the analysis was running",
		http.StatusConflict,
	)

	// ErrLocalStorageFailed - единственная жёсткая ошибка сохранения: запись не попала никуда
	ErrLocalStorageFailed = New(
		"LOCAL_STORAGE_FAILED",
		"Could not save the operation on this device",
		http.StatusInternalServerError,
	)

	ErrRemoteUnavailable = New(
		"REMOTE_UNAVAILABLE",
		"Remote store is unreachable",
		http.StatusServiceUnavailable,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrInvalidSession = New(
		"INVALID_SESSION",
		"Session token is invalid or expired",
		http.StatusUnauthorized,
	)

	ErrLookupFailed = New(
		"LOOKUP_FAILED",
		"External lookup failed",
		http.StatusBadGateway,
	)

	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"No place matches the query",
		http.StatusNotFound,
	)

	ErrAnalysisUnavailable = New(
		"ANALYSIS_UNAVAILABLE",
		"Analysis service is unavailable",
		http.StatusServiceUnavailable,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
