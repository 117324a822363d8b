package postgres

import "errors"

var ErrFieldsNotAllowedToUpdate = errors.New("some of the provided fields are not allowed to be updated")
