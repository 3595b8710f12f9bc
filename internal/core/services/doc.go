// Package services implements the driving port interfaces.
//
// The data path is Loader (fetch, NormaliseTable, decode), JoinInvoices,
// BuildCorpus and RankDocuments. Dashboards and the assistant read the
// loader's snapshot; RecordService appends rows and invalidates it.
//
// Services are pure Go and depend only on the port interfaces.
package services
