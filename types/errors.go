package types

const (
	ErrInvalidInput      = "Invalid input"
	ErrDatabaseError     = "Database error"
	ErrUnauthorized      = "Unauthorized access"
	ErrInternalError     = "internal server error"
	ErrInvalidCompetence = "Invalid competence (year/month)"
	ErrNotFound          = "Record not found"
	ErrMissingTaxTables  = "No active tax tables for this competence"
	ErrDuplicateRecord   = "Record already exists"
)
