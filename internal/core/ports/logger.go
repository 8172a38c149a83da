package ports

// Logger defines the interface for logging.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)

	// Action reports a step taken on subject, such as a checkout of a ref.
	Action(name, subject string, attrs ...any)

	// Event reports an informational event such as clone progress.
	Event(event, msg string)

	// Notice reports a non-fatal warning identified by code.
	Notice(code, msg string, attrs ...any)
}
