package nav

import "github.com/dkhmelev/storefront/internal/logger"

// ToastKind classifies a one-shot notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastInfo    ToastKind = "info"
	ToastError   ToastKind = "error"
)

// Toaster shows transient one-shot feedback to the user.
type Toaster interface {
	Show(kind ToastKind, message string)
}

// LogToaster routes toasts to the application logger. It stands in
// for a real notification surface.
type LogToaster struct {
	Logger *logger.Logger
}

func (t *LogToaster) Show(kind ToastKind, message string) {
	t.Logger.Info("toast", "kind", string(kind), "message", message)
}
