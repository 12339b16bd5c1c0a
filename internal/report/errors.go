package report

import "errors"

var ErrUnknownFormat = errors.New("report: unknown format")
