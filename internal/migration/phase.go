package migration

// Phase is a step of the migration state machine. A run moves forward
// through the phases in declaration order and stops in one of Completed,
// Aborted or Failed.
type Phase string

const (
	PhaseNotStarted            Phase = "NotStarted"
	PhaseConnectingSource      Phase = "ConnectingSource"
	PhaseConnectingDestination Phase = "ConnectingDestination"
	PhasePreparingSchema       Phase = "PreparingSchema"
	PhaseCheckingExistingData  Phase = "CheckingExistingData"
	PhaseTruncating            Phase = "Truncating"
	PhaseMigratingTables       Phase = "MigratingTables"
	PhaseVerifyingIntegrity    Phase = "VerifyingIntegrity"
	PhaseCompleted             Phase = "Completed"
	PhaseAborted               Phase = "Aborted"
	PhaseFailed                Phase = "Failed"
)

func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted || p == PhaseFailed
}

// Tables lists every migrated table, parents before children.
var Tables = []string{
	"users",
	"plans",
	"objectives",
	"members",
	"payments",
	"classes",
	"class_reservations",
	"equipment",
	"notifications",
	"activities",
	"user_preferences",
	"favorites",
}

// probeTables are checked for rows before anything is written.
var probeTables = []string{"users", "members", "plans"}

// verifyTables are compared between source and destination after commit.
var verifyTables = []string{"users", "plans", "members", "payments"}
