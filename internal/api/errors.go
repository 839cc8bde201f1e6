package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/facility-ledger/internal/common"
)

var (
	errInvalidJSON  = common.NewAppError("INVALID_JSON", "Request body must be a JSON object", common.ErrInvalidInput)
	errNoFile       = common.NewAppError("NO_FILE", "no file", common.ErrInvalidInput)
	errInvalidIndex = common.NewAppError("INVALID_INDEX", "Index must be an integer", common.ErrInvalidInput)
)

func schemaError(err error) error {
	msg := err.Error()
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		if leaf := ve.BasicOutput().Errors; len(leaf) > 0 {
			last := leaf[len(leaf)-1]
			msg = last.InstanceLocation + ": " + last.Error
		}
	}
	return common.NewAppError("VALIDATION_FAILED", msg, common.ErrValidation)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError renders err as {"error","code"} with the mapped status.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("http.request.failed",
			"request_id", common.RequestIDFromContext(c.Request.Context()),
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, errorResponse{Error: common.ErrorMessage(err), Code: common.ErrorCode(err)})
}
