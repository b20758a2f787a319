// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"fmt"
	"os"

	"github.com/automa-saga/automa"
	"gopkg.in/yaml.v3"

	"github.com/deskstrap/deskstrap/internal/core"
)

// PrintWorkflowReport prints the workflow execution report in YAML format and
// saves a copy at the given path.
var PrintWorkflowReport = func(report *automa.Report, path string) {
	b, err := yaml.Marshal(report)
	if err != nil {
		fmt.Printf("Failed to marshal report: %v\n", err)
		return
	}

	fmt.Printf("Workflow Execution Report:\n%s\n", b)

	if path == "" {
		return
	}

	if err := os.WriteFile(path, b, core.DefaultFilePerm); err != nil {
		fmt.Printf("Failed to save report to %s: %v\n", path, err)
	}
}
