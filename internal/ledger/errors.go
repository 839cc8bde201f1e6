package ledger

import (
	"github.com/joseph-ayodele/facility-ledger/internal/common"
)

var (
	ErrEntryNotFound        = common.NewAppError("ENTRY_NOT_FOUND", "Row not found", common.ErrNotFound)
	ErrDocumentRequired     = common.NewAppError("DOCUMENT_REQUIRED", "PDF required before editing this row", common.ErrInvalidInput)
	ErrPriceIndexOutOfRange = common.NewAppError("PRICE_INDEX_OUT_OF_RANGE", "Index out of range", common.ErrInvalidInput)
)
