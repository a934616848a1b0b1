package worldcfg

// Error codes attached to configuration failures.
const (
	CodeUnknownModel     = "UNKNOWN_MODEL"
	CodeDuplicateID      = "DUPLICATE_ID"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeSchemaViolation  = "SCHEMA_VIOLATION"
	CodeUnknownAction    = "UNKNOWN_ACTION"
	CodeInvalidBehaviour = "INVALID_BEHAVIOUR"
)
