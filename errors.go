package nbfix

import "errors"

// Sentinel errors for library operations.
var (
	ErrMalformedNotebook = errors.New("malformed notebook")
	ErrInvalidNotebook   = errors.New("notebook failed structural validation")
	ErrReadNotebook      = errors.New("failed to read notebook")
	ErrWriteNotebook     = errors.New("failed to write notebook")
	ErrOutsideBase       = errors.New("notebook is outside the base directory")

	// Rule set validation errors.
	ErrInvalidContainerTag = errors.New("invalid container tag")
	ErrInvalidLanguage     = errors.New("invalid language tag")
	ErrInvalidAssetPrefix  = errors.New("invalid asset prefix")
)
