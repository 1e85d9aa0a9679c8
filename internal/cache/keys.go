package cache

// Cache keys follow the convention <kind>:<resource>:<equipmentID>, so the
// full set of keys for one equipment record can be reconstructed from its ID
// alone. Consumers build keys only through these helpers; each helper is
// registered in DefaultRegistry so bulk invalidation stays in sync.

// ImagesURLKey is the URL-cache key for an equipment record's images.
func ImagesURLKey(equipmentID string) string {
	return "urls:images:" + equipmentID
}

// FilesURLKey is the URL-cache key for an equipment record's files.
func FilesURLKey(equipmentID string) string {
	return "urls:files:" + equipmentID
}

// LogsDataKey is the data-cache key for an equipment record's logs.
func LogsDataKey(equipmentID string) string {
	return "data:logs:" + equipmentID
}

// SummaryDataKey is the data-cache key for an equipment record's summary.
func SummaryDataKey(equipmentID string) string {
	return "data:summary:" + equipmentID
}
