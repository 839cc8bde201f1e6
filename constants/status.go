package constants

// Defaults applied to freshly created ledger entries.
const (
	DefaultCurrency      = "USD"
	DefaultStatus        = "Pending"
	DefaultPriority      = "Normal"
	DefaultPaymentStatus = "Unpaid"
)

// Extraction methods reported by the text pipeline.
const (
	MethodPDFText = "pdf-text"
	MethodPDFOCR  = "pdf-ocr"
	MethodNone    = "none"
)

// JobStatus is the lifecycle of a queued re-extraction job.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "QUEUED"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusOCROK   JobStatus = "OCR_OK"
	JobStatusFailed  JobStatus = "FAILED"
)
