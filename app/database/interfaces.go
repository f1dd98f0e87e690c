package database

type FetchLogRepository interface {
	RecordRun(run FetchRun) error
	GetLatestRuns() ([]FetchRun, error)
	GetRunCount() (int, error)
}
