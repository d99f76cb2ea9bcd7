package middleware

import (
	"crypto/subtle"
	"net/http"

	apperror "gotariff/internal/errors"
)

// AdminTokenMiddleware protege as rotas administrativas com um token estático
// (Authorization: Bearer <token>). Se nenhum token estiver configurado, as
// rotas ficam abertas; o main.go loga um aviso nesse caso.
func AdminTokenMiddleware(adminToken string) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
				http.Error(w, apperror.NewUnauthorizedError("Token de autorização ausente ou malformado.").Error(), http.StatusUnauthorized)
				return
			}

			provided := authHeader[7:]
			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
				http.Error(w, apperror.NewUnauthorizedError("Token inválido.").Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
