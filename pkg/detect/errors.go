// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace = errorx.NewNamespace("detect")

	// MalformedVersionError indicates a version string the major/minor
	// extractors cannot understand.
	MalformedVersionError = ErrorsNamespace.NewType("malformed_version")

	// DetectionFailedError indicates the live system query itself failed.
	DetectionFailedError = ErrorsNamespace.NewType("detection_failed")
)

var versionProperty = errorx.RegisterPrintableProperty("version")
