package handler

const (
	// ErrNilACMFatalLogMsg is used if the app, cfg or manager pointer is nil.
	ErrNilACMFatalLogMsg = "app, cfg or manager is nil"
)
