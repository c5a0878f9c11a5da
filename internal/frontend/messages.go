// Package frontend holds presentation helpers shared by the CLI, the
// Telegram bot and the MCP server.
package frontend

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/recommend"
)

// User-facing messages for the failure cases every frontend must tell apart.
const (
	MsgMissingKey = "No OMDb API key configured. Set MOVIEMATE_OMDB_API_KEY or omdb.api_key in the config file."
	MsgInvalidKey = "OMDb rejected the API key. Check that it is correct and activated."
	MsgNoResults  = "No results found."
	MsgNetwork    = "Could not reach OMDb. Check your connection and try again."
	MsgCanceled   = "Request canceled."
	MsgGeneric    = "Something went wrong. Please try again."
)

// UserMessage renders err as a short message suitable for end users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		ve *core.ValidationError
		ue *core.UpstreamError
	)
	switch {
	case errors.Is(err, core.ErrMissingAPIKey):
		return MsgMissingKey
	case core.IsAuth(err):
		return MsgInvalidKey
	case errors.Is(err, context.Canceled):
		return MsgCanceled
	case core.IsNotFound(err), errors.Is(err, recommend.ErrSeedNotFound):
		return MsgNoResults
	case core.IsTransport(err), errors.Is(err, context.DeadlineExceeded):
		return MsgNetwork
	case errors.As(err, &ve):
		if ve.Field == "" {
			return fmt.Sprintf("Invalid input: %s.", ve.Reason)
		}
		return fmt.Sprintf("Invalid %s: %s.", ve.Field, ve.Reason)
	case errors.As(err, &ue):
		return "OMDb error: " + ue.Message
	default:
		return MsgGeneric
	}
}
