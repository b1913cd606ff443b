package tester

import "sync"

// Pool capacities sized for typical mismatch counts.
const (
	resultErrorsCap   = 8
	resultWarningsCap = 4
)

var resultPool = sync.Pool{
	New: func() any {
		return &Result{
			Errors:   make([]Mismatch, 0, resultErrorsCap),
			Warnings: make([]Mismatch, 0, resultWarningsCap),
		}
	},
}

// getResult retrieves a Result from the pool and resets it.
func getResult() *Result {
	r := resultPool.Get().(*Result)
	r.reset()
	return r
}

// Release returns the Result to an internal pool for reuse. The Result and
// its mismatch slices must not be used afterwards. Calling Release is
// optional; results that are never released are garbage collected normally.
// The middleware package releases results after recording them, keeping the
// per-request cost flat.
func (r *Result) Release() {
	if r == nil {
		return
	}
	// Oversized slices are not pooled.
	if cap(r.Errors) > resultErrorsCap {
		r.Errors = nil
	}
	if cap(r.Warnings) > resultWarningsCap {
		r.Warnings = nil
	}
	resultPool.Put(r)
}

// reset clears the result for reuse, keeping allocated slice capacity.
func (r *Result) reset() {
	r.Valid = true
	r.Method = ""
	r.Path = ""
	r.OperationID = ""
	r.PathParams = nil
	r.Status = 0
	r.ResponseKey = ""
	r.ContentType = ""
	r.Err = nil
	r.request = false
	if r.Errors == nil {
		r.Errors = make([]Mismatch, 0, resultErrorsCap)
	} else {
		r.Errors = r.Errors[:0]
	}
	if r.Warnings == nil {
		r.Warnings = make([]Mismatch, 0, resultWarningsCap)
	} else {
		r.Warnings = r.Warnings[:0]
	}
}
