package vehiclerepo

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	apperror "gooficina/internal/errors"
	"gooficina/internal/pkg/logger"
)

func TestTranslateWriteErr(t *testing.T) {
	r := NewVehicleRepository(nil, time.Second, logger.NewNopLogger())

	// Placa repetida na mesma empresa é conflito (409), não falha do banco.
	err := r.translateWriteErr(fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "vehicles_company_plate_key"}), "salvar")
	assert.IsType(t, &apperror.ConflictError{}, err)
	status, _, msg := apperror.MapToHTTPStatus(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, msg, duplicatePlateMsg)

	err = r.translateWriteErr(errors.New("connection reset"), "salvar")
	assert.IsType(t, &apperror.ExternalServiceError{}, err)
	status, _, _ = apperror.MapToHTTPStatus(err)
	assert.Equal(t, http.StatusBadGateway, status)
}
