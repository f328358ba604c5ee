package constant

const (
	// MAX_FILE_SIZE is the photo upload ceiling.
	MAX_FILE_SIZE = 5 * 1024 * 1024

	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 100

	// SEARCH_RESULT_CAP bounds the query-parameter search endpoint.
	SEARCH_RESULT_CAP = 50
)
