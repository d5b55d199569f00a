package middleware

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/errmap/pkg/exceptions"
	"github.com/JaimeStill/errmap/pkg/handlers"
)

// Recover returns middleware that turns handler panics into mapped error
// responses. A panic value that is an error is mapped as-is; any other value
// becomes "panic: <value>". http.ErrAbortHandler is re-panicked so the server
// aborts the connection. Nothing is written if the handler already started
// the response.
func Recover(mapper *exceptions.Mapper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err, ok := v.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", v)
				}

				if rec.wrote {
					mapper.ToResponse(err)
					return
				}
				handlers.RespondMapped(rec, mapper, err)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
