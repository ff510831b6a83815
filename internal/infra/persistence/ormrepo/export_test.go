package ormrepo

import "ormlab/internal/errors"

var errRollback = errors.New("rollback")
