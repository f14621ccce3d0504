package recommendation

import "errors"

var (
	// ErrDataUnavailable means there is no history to learn or score from.
	ErrDataUnavailable = errors.New("recommendation: no qualifying data")
	// ErrModelUntrained means no weights have been persisted yet.
	ErrModelUntrained = errors.New("recommendation: ranking model is not trained")

	ErrCartNotFound       = errors.New("recommendation: cart not found")
	ErrCartAddressMissing = errors.New("recommendation: cart has no address")
	ErrDuplicateRejection = errors.New("recommendation: product already rejected by this user")
	ErrRejectionNotFound  = errors.New("recommendation: rejection not found")
	ErrExampleNotFound    = errors.New("recommendation: no matching training example")
	ErrUnknownAction      = errors.New("recommendation: unknown cart action")
)
