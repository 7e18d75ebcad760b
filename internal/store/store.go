// Package store persists trial suites and their per-trial results so runs
// can be compared across planners and seeds. The canonical implementation
// is SQLite; MemStore backs tests and one-shot runs.
package store

// DefaultDBPath is the default relative path for the SQLite DB.
// Open() creates the parent directory (e.g. .driftwood) if needed.
const DefaultDBPath = ".driftwood/driftwood.db"

// Suite is one recorded trial run: N trials of one scenario against one
// planner.
type Suite struct {
	ID        int64
	Scenario  string
	Planner   string
	Trials    int
	Accuracy  float64
	CreatedAt string
}

// Trial is one persisted trial outcome. PlanJSON holds the executed plan
// verbatim so failed trials can be replayed.
type Trial struct {
	ID         int64
	SuiteID    int64
	Seq        int
	Seed       int64
	Variants   string // comma-joined kinds that fired, in order
	PlanJSON   string
	Skips      int
	Pass       bool
	Violations int
	Error      string
	DurationMs int64
}

// Store is the persistence facade for trial history. The trial runner and
// CLI use only this interface.
type Store interface {
	CreateSuite(scenario, planner string) (suiteID int64, err error)
	FinishSuite(suiteID int64, trials int, accuracy float64) error
	GetSuite(suiteID int64) (*Suite, error)
	ListSuites() ([]*Suite, error)

	SaveTrial(t *Trial) (trialID int64, err error)
	ListTrials(suiteID int64) ([]*Trial, error)

	Close() error
}
