package submission

import "errors"

var ErrUploadsDisabled = errors.New("proof uploads are not configured")
