/*******************************************************************************
*
* Copyright 2015 Stefan Majewsky <majewsky@gmx.net>
* Copyright 2024 Heimdall contributors
*
* This file is part of Heimdall.
*
* Heimdall is free software: you can redistribute it and/or modify it under the
* terms of the GNU General Public License as published by the Free Software
* Foundation, either version 3 of the License, or (at your option) any later
* version.
*
* Heimdall is distributed in the hope that it will be useful, but WITHOUT ANY
* WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR
* A PARTICULAR PURPOSE. See the GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License along with
* Heimdall. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

// Package common holds the error taxonomy (spec.md §7) and small batching
// helpers shared across readers, dwarfx, attributors and extractor.
package common

import (
	"errors"
	"fmt"
)

// ErrorCollector aggregates multiple non-fatal errors for collective
// reporting, mirroring the teacher's original batching helper. Per-path
// failures (spec.md §4.4 "Failure policy") go through a collector instead
// of aborting a batch.
type ErrorCollector struct {
	Errors []error
}

// Add adds an error to the collector. A nil error is a no-op, so callers
// can write c.Add(mightFail()) unconditionally.
func (c *ErrorCollector) Add(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// Addf adds an error built from a format string, exactly like fmt.Errorf.
func (c *ErrorCollector) Addf(format string, args ...interface{}) {
	if len(args) > 0 {
		c.Errors = append(c.Errors, fmt.Errorf(format, args...))
	} else {
		c.Errors = append(c.Errors, errors.New(format))
	}
}

// HasErrors reports whether any error was collected.
func (c *ErrorCollector) HasErrors() bool {
	return len(c.Errors) > 0
}
