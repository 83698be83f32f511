package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gooficina/internal/domain"
	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
	"gooficina/internal/pkg/middleware"
)

// Write padroniza as respostas dos handlers: JSON com successStatus quando err é nil,
// ou {code, category, message} com o status mapeado do erro.
func Write(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		log.Debug("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s %s (%s)", r.Method, r.URL.Path, category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// DecodeJSON lê o corpo da requisição. Campos desconhecidos são rejeitados.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}
	return nil
}

// CompanyID devolve a oficina do usuário autenticado.
func CompanyID(r *http.Request) (string, error) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok || claims.CompanyID == "" {
		return "", apperror.NewUnauthorizedError("Usuário sem oficina associada ao token.")
	}
	return claims.CompanyID, nil
}

// PageParam lê ?page=; ausente ou inválido vira 1.
func PageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
