package dispatch

import "fmt"

// BindError é retornado quando o listener não consegue ocupar host:port
// (porta em uso, permissão negada...). Não há nova tentativa automática.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to start server on %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
