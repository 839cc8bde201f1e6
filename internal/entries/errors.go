package entries

import (
	"github.com/joseph-ayodele/facility-ledger/internal/common"
)

var (
	ErrNoStoredDocument = common.NewAppError("NO_STORED_DOCUMENT", "There is no stored PDF for this row", common.ErrInvalidInput)
	ErrDocumentMissing  = common.NewAppError("DOCUMENT_MISSING", "Stored PDF not found on server", common.ErrNotFound)
	ErrInvalidDocument  = common.NewAppError("INVALID_DOCUMENT", "Uploaded file is empty", common.ErrInvalidInput)
)
