package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/psi-scheduler/internal/httperr"
)

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code, message)
	}
	return err
}
