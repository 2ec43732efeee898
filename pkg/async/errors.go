package async

import "errors"

var ErrAlreadySettled = errors.New("async: future already settled")
