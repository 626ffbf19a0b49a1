package engine

import "errors"

// BulkResult summarizes an operation applied independently to many repos.
type BulkResult struct {
	Attempted int
	Failed    int
	Errors    []error
}

// Succeeded reports whether every attempted item succeeded.
func (result BulkResult) Succeeded() bool {
	return result.Failed == 0
}

// Err joins the per-item errors, or returns nil when none failed.
func (result BulkResult) Err() error {
	return errors.Join(result.Errors...)
}

func (result *BulkResult) record(itemError error) {
	result.Attempted++
	if itemError == nil {
		return
	}
	result.Failed++
	result.Errors = append(result.Errors, itemError)
}
