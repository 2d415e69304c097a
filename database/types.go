package database

type RemarkStatus int8

const (
	RemarkPending   RemarkStatus = 0
	RemarkHandled   RemarkStatus = 1
	RemarkMalformed RemarkStatus = -1
)

func (s RemarkStatus) String() string {
	switch s {
	case RemarkPending:
		return "PENDING"
	case RemarkHandled:
		return "HANDLED"
	case RemarkMalformed:
		return "MALFORMED"
	default:
		return "UNKNOWN"
	}
}

// Misc other types

type MigrationStatus string

const (
	MigrationPending   MigrationStatus = "PENDING"
	MigrationCompleted MigrationStatus = "COMPLETED"
	MigrationFailed    MigrationStatus = "FAILED"
)
