package dto

// DayOutput mirrors one history record for presentation.
type DayOutput struct {
	Date  string
	Count int
}

// StatsOutput is the rendered summary of the current history.
type StatsOutput struct {
	Days         []DayOutput
	Streak       int
	Buckets      map[string]int
	Total        int
	FromProvider bool
	RemoteLinked bool
}

type RecordOutput struct {
	Date  string
	Count int
	Saved bool
}

type SyncStatusOutput struct {
	Linked     bool
	RemoteLink string
	HasToken   bool
}

type SyncOutput struct {
	RemoteLink string
	Created    bool
	RemoteDays int
	MergedDays int
	Changed    bool
}

type ResetOutput struct {
	BackupPath string
	Dropped    int
}
